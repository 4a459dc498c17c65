package session

import "strings"

// separator splits the organization from the data repository.
const separator = "/"

// Info is the organization and data repository a session runs against.
type Info struct {
	Organization   string `yaml:"org" json:"org"`
	DataRepository string `yaml:"dataRepo" json:"dataRepo"`
}

// ParseInfo parses a session string of the form "<org>/<repo>".
//
// The string is split on the first "/". No validation is performed: a string
// without a separator yields the whole input as the organization and an empty
// data repository, and empty segments stay empty.
func ParseInfo(s string) Info {
	org, repo, _ := strings.Cut(s, separator)
	return Info{Organization: org, DataRepository: repo}
}

// String renders the session as "org/repo".
func (i Info) String() string {
	return i.Organization + separator + i.DataRepository
}

// IsZero reports whether neither field is set.
func (i Info) IsZero() bool {
	return i.Organization == "" && i.DataRepository == ""
}
