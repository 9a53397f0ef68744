package cargo

// Profile is the cargo build optimization mode. It selects the compiler
// flags and the directory cargo writes output to.
type Profile string

const (
	ProfileDebug   Profile = "debug"
	ProfileRelease Profile = "release"
)

// DevProfileName is the configuration value selecting a debug build,
// matching cargo's own name for the unoptimized profile.
const DevProfileName = "dev"

// ParseProfile maps a configured profile string to a Profile. "dev"
// selects a debug build; anything else, including the empty string,
// selects release.
func ParseProfile(s string) Profile {
	if s == DevProfileName {
		return ProfileDebug
	}
	return ProfileRelease
}

// Dir returns the target subdirectory cargo uses for this profile.
func (p Profile) Dir() string {
	return string(p)
}
