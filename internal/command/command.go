// Package command resolves tool executables and assembles invocations.
package command

import (
	"os/exec"
	"strings"
)

// Command is a fully resolved tool invocation.
type Command struct {
	Path string
	Args []string
}

// String returns the invocation as a single printable line.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Resolve returns the path of the first candidate found on PATH,
// probing in the order given. Empty candidate entries are skipped.
// Resolution happens fresh on every call, so PATH changes take effect
// on the next scan.
func Resolve(candidates []string) (string, error) {
	tried := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if name == "" {
			continue
		}
		tried = append(tried, name)
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	if len(tried) == 0 {
		return "", ErrNoCandidates
	}
	return "", &NotFoundError{Candidates: tried}
}

// Build resolves the executable from candidates and combines it with
// the prepared argument list.
func Build(candidates, args []string) (Command, error) {
	path, err := Resolve(candidates)
	if err != nil {
		return Command{}, err
	}
	return Command{Path: path, Args: args}, nil
}
