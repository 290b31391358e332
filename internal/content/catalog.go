package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/terraincognita07/mindharbor/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embeddedData embed.FS

var ErrContentNotFound = errors.New("content not found")

const (
	blogFile       = "blog.yaml"
	communityFile  = "community.yaml"
	navigatorsFile = "navigators.yaml"
)

// Catalog is an immutable snapshot of the static site content.
type Catalog struct {
	Posts      []models.BlogPost    `yaml:"posts"`
	Profiles   []models.UserProfile `yaml:"profiles"`
	Navigators []models.Navigator   `yaml:"navigators"`
}

// EmbeddedFS returns the content shipped inside the binary.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// DirFS returns the content of an override directory.
func DirFS(dir string) fs.FS {
	return os.DirFS(dir)
}

// Load reads the three content files from fsys. Every file is required.
func Load(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{}
	for _, name := range []string{blogFile, communityFile, navigatorsFile} {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(raw, catalog); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}

	sort.SliceStable(catalog.Posts, func(i, j int) bool {
		return catalog.Posts[i].PublishedAt.After(catalog.Posts[j].PublishedAt)
	})
	return catalog, nil
}

func (catalog *Catalog) validate() error {
	seen := make(map[string]struct{})
	check := func(kind string, id string) error {
		if id == "" {
			return fmt.Errorf("%s without id", kind)
		}
		key := kind + "/" + id
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate %s id %q", kind, id)
		}
		seen[key] = struct{}{}
		return nil
	}

	for _, post := range catalog.Posts {
		if err := check("post", post.ID); err != nil {
			return err
		}
	}
	for _, profile := range catalog.Profiles {
		if err := check("profile", profile.ID); err != nil {
			return err
		}
	}
	for _, navigator := range catalog.Navigators {
		if err := check("navigator", navigator.ID); err != nil {
			return err
		}
	}
	return nil
}

func (catalog *Catalog) Post(id string) (models.BlogPost, error) {
	for _, post := range catalog.Posts {
		if post.ID == id {
			return post, nil
		}
	}
	return models.BlogPost{}, ErrContentNotFound
}

func (catalog *Catalog) Profile(id string) (models.UserProfile, error) {
	for _, profile := range catalog.Profiles {
		if profile.ID == id {
			return profile, nil
		}
	}
	return models.UserProfile{}, ErrContentNotFound
}

func (catalog *Catalog) Navigator(id string) (models.Navigator, error) {
	for _, navigator := range catalog.Navigators {
		if navigator.ID == id {
			return navigator, nil
		}
	}
	return models.Navigator{}, ErrContentNotFound
}

// Appointments lists every open slot ordered by start time. A non-empty
// specialty keeps only navigators that list it.
func (catalog *Catalog) Appointments(specialty string) []models.Appointment {
	appointments := make([]models.Appointment, 0)
	for _, navigator := range catalog.Navigators {
		if specialty != "" && !hasSpecialty(navigator, specialty) {
			continue
		}
		for _, slot := range navigator.Slots {
			appointments = append(appointments, models.Appointment{
				NavigatorID:   navigator.ID,
				NavigatorName: navigator.Name,
				Slot:          slot,
			})
		}
	}
	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].Slot.StartsAt.Before(appointments[j].Slot.StartsAt)
	})
	return appointments
}

func hasSpecialty(navigator models.Navigator, specialty string) bool {
	for _, candidate := range navigator.Specialties {
		if candidate == specialty {
			return true
		}
	}
	return false
}
