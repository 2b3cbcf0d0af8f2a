// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

// Package client implements the command-line client application runtime.
//
// It wires the local identity keystore and the server adapter into the
// vault commands: key management runs fully offline, vault operations
// sign a request locally and submit it over the adapter.
package client
