package library

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default_seed.yaml
var defaultSeed []byte

// SeedItem describes one catalog entry in a seed file.
type SeedItem struct {
	ID       string `yaml:"id" validate:"required,max=64"`
	Category string `yaml:"category" validate:"required,oneof=book album movie"`
	Title    string `yaml:"title" validate:"required,max=200"`
	Creator  string `yaml:"creator" validate:"required,max=200"`
}

// SeedPatron describes one member in a seed file.
type SeedPatron struct {
	ID   string `yaml:"id" validate:"required,max=64"`
	Name string `yaml:"name" validate:"required,max=200"`
}

// Seed is the starting catalog and membership of a library.
type Seed struct {
	Items   []SeedItem   `yaml:"items" validate:"dive"`
	Patrons []SeedPatron `yaml:"patrons" validate:"dive"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

var seedValidator = validator.New()

// DefaultSeed returns the built-in demonstration catalog.
func DefaultSeed() *Seed {
	s, err := ParseSeed(bytes.NewReader(defaultSeed))
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return s
}

// LoadSeed reads and validates the seed file at path.
func LoadSeed(path string) (*Seed, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, "open seed file")
	}
	defer f.Close()
	s, err := ParseSeed(f)
	if err != nil {
		return nil, errors.Wrapf(err, "seed %s", path)
	}
	return s, nil
}

// ParseSeed decodes YAML from r and validates it. Ids must be unique within
// items and within patrons; the library itself does not check this.
func ParseSeed(r io.Reader) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode seed")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Seed) Validate() error {
	var out ValidationErrors

	if err := seedValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		out = append(out, translateValidationErrors(verrs)...)
	}

	seen := make(map[string]bool)
	for i, it := range s.Items {
		if it.ID != "" && seen[it.ID] {
			out = append(out, ValidationError{
				Field:   fmt.Sprintf("items[%d].id", i),
				Message: fmt.Sprintf("duplicate item id %q", it.ID),
			})
		}
		seen[it.ID] = true
	}
	seen = make(map[string]bool)
	for i, p := range s.Patrons {
		if p.ID != "" && seen[p.ID] {
			out = append(out, ValidationError{
				Field:   fmt.Sprintf("patrons[%d].id", i),
				Message: fmt.Sprintf("duplicate patron id %q", p.ID),
			})
		}
		seen[p.ID] = true
	}

	if len(out) > 0 {
		return out
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s], got %q", err.Field(), err.Param(), err.Value())
		}
		out = append(out, ValidationError{
			Field:   seedFieldPath(err.Namespace()),
			Message: message,
		})
	}
	return out
}

// seedFieldPath turns "Seed.Items[0].ID" into "items[0].id".
func seedFieldPath(ns string) string {
	ns = strings.TrimPrefix(ns, "Seed.")
	return strings.ToLower(ns)
}

// Apply registers every seed entry with lib in file order.
func (s *Seed) Apply(lib *Library) {
	for _, it := range s.Items {
		lib.AddItem(NewItem(it.ID, it.Title, Category(it.Category), it.Creator))
	}
	for _, p := range s.Patrons {
		lib.AddPatron(NewPatron(p.ID, p.Name))
	}
}
