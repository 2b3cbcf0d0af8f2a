package ledger

// Storage-rent schedule for persisted records. A record stays alive only
// while its address holds at least the rent-exempt minimum for its size;
// Initialize funds exactly this minimum and Close reclaims it. Constants
// mirror the rent schedule of the ledger the original program ran on.
const (
	// rentPerByteYear is the rent charge per stored byte per year, in the
	// smallest unit.
	rentPerByteYear = 3480

	// rentExemptionYears is the number of years of rent a record must hold
	// up front to be exempt from ongoing collection.
	rentExemptionYears = 2

	// recordOverhead is the storage-layer accounting overhead added to the
	// declared record size.
	recordOverhead = 128
)

// RentExemptMinimum returns the minimum balance a record of the given
// payload size must hold to remain alive indefinitely.
func RentExemptMinimum(size uint64) uint64 {
	return (size + recordOverhead) * rentPerByteYear * rentExemptionYears
}
