package podcheck

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
)

// Property names reported in violations.
const (
	PropertyPartition     = "partition"
	PropertyGroupAtomic   = "group_atomicity"
	PropertySize          = "pod_size"
	PropertyCompatibility = "compatibility"
	PropertyNumbering     = "numbering"
	PropertyUnexpected    = "unexpected_rejection"
)
