package store

const (
	selectBalance = `SELECT balance
		FROM accounts
		WHERE address = $1;`

	// debitAccount only succeeds when the source holds enough balance;
	// zero rows affected means insufficient funds (a missing account row
	// is a zero balance).
	debitAccount = `UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE address = $1 AND balance >= $2;`

	sumBalances = `SELECT COALESCE(SUM(balance), 0)
		FROM accounts;`

	creditAccount = `INSERT INTO accounts (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address)
		DO UPDATE SET balance = accounts.balance + EXCLUDED.balance, updated_at = NOW();`

	findStateByOwner = `SELECT address, owner, vault_bump, state_bump, rent_deposit, created_at
		FROM vault_states
		WHERE owner = $1;`

	createState = `INSERT INTO vault_states (address, owner, vault_bump, state_bump, rent_deposit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at;`

	deleteStateByOwner = `DELETE FROM vault_states
		WHERE owner = $1;`
)
