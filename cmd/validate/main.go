package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-kit/pkg/preserve"
)

const dataPrefix = "Save Data - "

func main() {
	codecName := flag.String("codec", "json", "save encoding: json or cbor")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-codec json|cbor] <save data file>...\n", os.Args[0])
		os.Exit(1)
	}

	codec, err := preserve.CodecByName(*codecName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	failed := false
	for _, filename := range flag.Args() {
		validator := &SaveValidator{codec: codec}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid (version %d)\n", filename, validator.meta.Version)
	}
	if failed {
		os.Exit(1)
	}
}

// saveHeader is the part of any save the validator understands
type saveHeader struct {
	Save preserve.Meta  `json:"save"`
	Vars map[string]int `json:"vars,omitempty"`
}

type SaveValidator struct {
	codec  preserve.Codec
	meta   preserve.Meta
	errors []string
}

func (v *SaveValidator) validateFile(filename string) error {
	baseName := filepath.Base(filename)
	if !strings.HasPrefix(baseName, dataPrefix) {
		return fmt.Errorf("save data file must be named '%s<name>': %s", dataPrefix, baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return v.validate(filename, data)
}

func (v *SaveValidator) validate(filename string, data []byte) error {
	v.errors = nil

	var h saveHeader
	if err := v.codec.Unmarshal(data, &h); err != nil {
		return fmt.Errorf("file %s is not a %s save: %w", filename, v.codec.Name(), err)
	}
	v.meta = h.Save

	v.validateMeta(&h.Save, filename)
	for name := range h.Vars {
		if !isValidVariableName(name) {
			v.addError(fmt.Sprintf("variable '%s' should be lowercase snake_case", name))
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *SaveValidator) validateMeta(m *preserve.Meta, filename string) {
	if m.Name == "" {
		v.addError("save has no name")
	} else {
		want := dataPrefix + m.Name
		if got := filepath.Base(filename); got != want {
			v.addError(fmt.Sprintf("save name '%s' does not match file name '%s'", m.Name, got))
		}
		if dir := filepath.Base(filepath.Dir(filename)); dir != "Save - "+m.Name {
			v.addError(fmt.Sprintf("save name '%s' does not match directory '%s'", m.Name, dir))
		}
	}

	if _, err := uuid.Parse(m.InstanceID); err != nil {
		v.addError(fmt.Sprintf("instance_id '%s' is not a UUID", m.InstanceID))
	}
	if m.Version < 1 {
		v.addError(fmt.Sprintf("version %d is below 1", m.Version))
	}
	if m.Digest != nil && len(m.Digest) != 64 {
		v.addError(fmt.Sprintf("password digest has %d bytes, want 64", len(m.Digest)))
	}
	if m.CreatedAt.IsZero() {
		v.addError("created_at is missing")
	}

	if !slices.IsSorted(m.TrackedFields) {
		v.addError("tracked_fields are not sorted")
	}
	if len(slices.Compact(slices.Clone(m.TrackedFields))) != len(m.TrackedFields) {
		v.addError("tracked_fields contain duplicates")
	}
	for _, f := range m.TrackedFields {
		if !isValidVariableName(f) {
			v.addError(fmt.Sprintf("tracked field '%s' should be lowercase snake_case", f))
		}
	}
}

func (v *SaveValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validVarRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidVariableName(name string) bool {
	return validVarRegex.MatchString(name)
}
