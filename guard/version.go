package guard

// Version information for the stateguard runtime.
const (
	// Version is the current version of the stateguard runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the guard.
type Info struct {
	// Version is the runtime version string.
	Version string

	// Policy names the reentrancy policy in effect.
	Policy string

	// Fairness names the waiter wake-order policy.
	Fairness string
}

// GetInfo returns information about the stateguard runtime.
//
// Example:
//
//	info := guard.GetInfo()
//	fmt.Printf("stateguard %s (%s, %s)\n", info.Version, info.Policy, info.Fairness)
func GetInfo() Info {
	return Info{
		Version:  Version,
		Policy:   "non-reentrant",
		Fairness: "FIFO handoff",
	}
}
