package plugin

import "git.home.luguber.info/inful/plugindocs/internal/typedoc"

// Record is the normalized documentation data of one plugin module.
type Record struct {
	Name         string          `json:"name"`
	PrettyName   string          `json:"prettyName"`
	Description  string          `json:"description"`
	Installation string          `json:"installation,omitempty"`
	Repo         string          `json:"repo,omitempty"`
	NPMName      string          `json:"npmName"`
	CordovaName  string          `json:"cordovaName,omitempty"`
	Platforms    []string        `json:"platforms"`
	Usage        *string         `json:"usage"`
	Members      []Member        `json:"members"`
	Interfaces   []*typedoc.Node `json:"interfaces"`
}

// Member is one documented class member.
type Member struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Returns     *Returns `json:"returns"`
	Params      []Param  `json:"params"`
}

// Returns describes the value produced by a callable member. Type holds the
// single generic argument of the return type, e.g. "string" for
// Promise<string>.
type Returns struct {
	Description *string `json:"description"`
	Name        string  `json:"name"`
	Type        *string `json:"type"`
}

// Param is one parameter of a callable member's first signature.
type Param struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Type        string  `json:"type"`
	Optional    bool    `json:"optional"`
}

// HasUsage reports whether the record carries a usage example.
func (r *Record) HasUsage() bool { return r.Usage != nil && *r.Usage != "" }
