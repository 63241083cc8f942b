package audit

import (
	"os"
	"os/user"
	"strings"
	"time"
)

// TimestampLayout is the fixed format of Record.Timestamp.
const TimestampLayout = "2006-01-02 03:04 PM"

// Environment supplies the identity and clock captured by a new Record.
// Implementations return empty strings rather than failing.
type Environment interface {
	HostName() string
	CurrentPrincipalName() string
	DomainName() string
	LocalUserName() string
	Now() time.Time
}

// OSEnvironment reads identity from the operating system.
type OSEnvironment struct{}

func (OSEnvironment) HostName() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}

// CurrentPrincipalName returns the account name as reported by the OS. On
// Windows this is already domain qualified.
func (OSEnvironment) CurrentPrincipalName() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

func (e OSEnvironment) DomainName() string {
	if v := os.Getenv("USERDOMAIN"); v != "" {
		return v
	}
	return e.HostName()
}

func (OSEnvironment) LocalUserName() string {
	for _, k := range []string{"USERNAME", "USER", "LOGNAME"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func (OSEnvironment) Now() time.Time { return time.Now() }

// FixedEnvironment returns preset values. Clock, when set, overrides At.
type FixedEnvironment struct {
	Host      string
	Principal string
	Domain    string
	User      string
	At        time.Time
	Clock     func() time.Time
}

func (e FixedEnvironment) HostName() string             { return e.Host }
func (e FixedEnvironment) CurrentPrincipalName() string { return e.Principal }
func (e FixedEnvironment) DomainName() string           { return e.Domain }
func (e FixedEnvironment) LocalUserName() string        { return e.User }

func (e FixedEnvironment) Now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return e.At
}

// userName resolves the principal, falling back to domain<sep>user.
func userName(env Environment) string {
	if name := env.CurrentPrincipalName(); name != "" {
		return name
	}
	var b strings.Builder
	b.WriteString(env.DomainName())
	b.WriteRune(os.PathSeparator)
	b.WriteString(env.LocalUserName())
	return b.String()
}
