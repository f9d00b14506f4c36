// Package io stages command output files so that they appear only when every
// output of a command has been produced.
package io

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Artifact is an output file staged in a temporary file beside its
// destination. The destination is only written by Commit.
type Artifact struct {
	Verbose bool   // If set, enables verbose logging.
	Path    string // Destination path.

	file *os.File
}

var _ io.Writer = (*Artifact)(nil)

// Create stages a new artifact for path.
func Create(path string) (art *Artifact, err error) {
	dir, base := filepath.Split(path)
	if len(dir) == 0 {
		dir = "."
	}

	file, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		err = &ErrArtifact{Path: path, Err: err}
		return
	}

	art = &Artifact{
		Path: path,
		file: file,
	}

	return
}

// Staged returns the temporary file name, or "" once closed.
func (art *Artifact) Staged() string {
	if art.file == nil {
		return ""
	}
	return art.file.Name()
}

// Write appends data to the staged file.
func (art *Artifact) Write(data []byte) (n int, err error) {
	if art.file == nil {
		err = &ErrArtifact{Path: art.Path, Err: ErrArtifactClosed}
		return
	}

	n, err = art.file.Write(data)
	if err != nil {
		err = &ErrArtifact{Path: art.Path, Err: err}
	}

	return
}

// Commit moves the staged file to its destination.
// On failure, the staged file is removed.
func (art *Artifact) Commit() (err error) {
	if art.file == nil {
		err = &ErrArtifact{Path: art.Path, Err: ErrArtifactClosed}
		return
	}

	file := art.file
	art.file = nil

	err = file.Close()
	if err == nil {
		err = os.Chmod(file.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(file.Name(), art.Path)
	}
	if err != nil {
		err = errors.Join(err, os.Remove(file.Name()))
		err = &ErrArtifact{Path: art.Path, Err: err}
		return
	}

	if art.Verbose {
		log.Printf("io: committed %v", art.Path)
	}

	return
}

// Discard removes the staged file. Discarding a committed or already
// discarded artifact does nothing.
func (art *Artifact) Discard() (err error) {
	if art.file == nil {
		return
	}

	file := art.file
	art.file = nil

	err = errors.Join(file.Close(), os.Remove(file.Name()))
	if err != nil {
		err = &ErrArtifact{Path: art.Path, Err: err}
		return
	}

	if art.Verbose {
		log.Printf("io: discarded %v", art.Path)
	}

	return
}

// Artifacts is a group of artifacts committed together.
type Artifacts struct {
	Verbose bool // If set, enables verbose logging.

	staged []*Artifact
}

// Create stages a new artifact in the group.
func (arts *Artifacts) Create(path string) (art *Artifact, err error) {
	art, err = Create(path)
	if err != nil {
		return
	}

	art.Verbose = arts.Verbose
	arts.staged = append(arts.staged, art)

	return
}

// Commit commits every staged artifact. If any commit fails, the artifacts
// not yet committed are discarded, and those already committed by this call
// are removed, so either every output is written or none is. A destination
// that existed before the call is not restored.
func (arts *Artifacts) Commit() (err error) {
	staged := arts.staged
	arts.staged = nil

	for n, art := range staged {
		err = art.Commit()
		if err == nil {
			continue
		}

		for _, rest := range staged[n+1:] {
			err = errors.Join(err, rest.Discard())
		}
		for _, done := range staged[:n] {
			if arts.Verbose {
				log.Printf("io: rolling back %v", done.Path)
			}
			err = errors.Join(err, os.Remove(done.Path))
		}

		return
	}

	return
}

// Discard removes every staged artifact.
func (arts *Artifacts) Discard() (err error) {
	staged := arts.staged
	arts.staged = nil

	for _, art := range staged {
		err = errors.Join(err, art.Discard())
	}

	return
}
