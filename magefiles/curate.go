//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Curate groups the curation workflow targets.
type Curate mg.Namespace

// Import records the publications cited by the bioregistry export as curated.
func (Curate) Import() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "curated", "import")
}

// Backlog prints the top of the curation backlog.
func (Curate) Backlog() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "backlog", "--limit", "25")
}

// Compare writes the manual-vs-automated comparison CSV under benchmarks/results.
func (Curate) Compare() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath(), "compare")
}
