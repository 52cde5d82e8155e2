// Package status reports how far the home directory is from the installed
// state without changing anything.
package status

import (
	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/filesystem"
	"github.com/arthur-debert/dotfiles-installer/pkg/logging"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// State of one managed home entry
type State string

const (
	// StateLinked means the entry is a symlink to its repository file.
	StateLinked State = "linked"
	// StateMissing means nothing exists at the home location.
	StateMissing State = "missing"
	// StateConflict means a file or directory would be backed up and replaced.
	StateConflict State = "conflict"
	// StateForeignLink means a symlink points somewhere else.
	StateForeignLink State = "foreign-link"
)

// States lists every state in display order.
var States = []State{StateLinked, StateMissing, StateConflict, StateForeignLink}

// Entry is the status of one managed path.
type Entry struct {
	Path     string `yaml:"path"`
	State    State  `yaml:"state"`
	Kind     string `yaml:"kind"`
	Expected string `yaml:"expected"`
	Actual   string `yaml:"actual,omitempty"`
}

// Report is the status of every managed path and the submodule link.
type Report struct {
	Home       string  `yaml:"home"`
	Repository string  `yaml:"repository"`
	Entries    []Entry `yaml:"entries"`
	Submodules Entry   `yaml:"submodules"`
}

// Checker builds reports.
type Checker struct {
	fs     filesystem.FS
	logger zerolog.Logger
}

// NewChecker creates a status checker.
func NewChecker(fsys filesystem.FS, logger zerolog.Logger) *Checker {
	return &Checker{fs: fsys, logger: logging.Component(logger, "status")}
}

// Check inspects the home entry of every managed file and the submodule
// link slot.
func (c *Checker) Check(locs paths.Locations) (*Report, error) {
	files, err := filesystem.ListRelFiles(c.fs, locs.Dotfiles.Path())
	if err != nil {
		return nil, err
	}

	report := &Report{
		Home:       locs.Home.Path(),
		Repository: locs.Repo.Path(),
		Entries:    make([]Entry, 0, len(files)),
	}
	for _, rel := range files {
		entry, err := c.entry(locs.Home.Join(rel), locs.Dotfiles.Join(rel).Path())
		if err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, entry)
	}

	report.Submodules, err = c.entry(locs.Home.Join(locs.SubmoduleLink), locs.Submodules.Path())
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Interface("counts", report.Counts()).Msg("Status checked")
	return report, nil
}

func (c *Checker) entry(live paths.File[paths.Home], expected string) (Entry, error) {
	entry := Entry{Path: live.Rel().String(), Expected: expected}

	kind, err := filesystem.Classify(c.fs, live.Path())
	if err != nil {
		return entry, err
	}
	entry.Kind = kind.String()

	switch kind {
	case filesystem.Absent:
		entry.State = StateMissing
	case filesystem.Symlink:
		target, err := c.fs.Readlink(live.Path())
		if err != nil {
			return entry, errors.Wrapf(err, errors.ErrFileRead, "failed to read symlink %s", live)
		}
		entry.Actual = target
		entry.State = StateForeignLink
		if target == expected {
			entry.State = StateLinked
		}
	default:
		entry.State = StateConflict
	}
	return entry, nil
}

// All returns the file entries followed by the submodule entry.
func (r *Report) All() []Entry {
	return append(append([]Entry{}, r.Entries...), r.Submodules)
}

// Counts tallies entries per state, submodule link included.
func (r *Report) Counts() map[State]int {
	return lo.CountValuesBy(r.All(), func(e Entry) State { return e.State })
}

// Pending returns the entries an install would change.
func (r *Report) Pending() []Entry {
	return lo.Filter(r.All(), func(e Entry, _ int) bool { return e.State != StateLinked })
}

// Installed reports whether every entry is linked.
func (r *Report) Installed() bool {
	return len(r.Pending()) == 0
}

// YAML renders the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
