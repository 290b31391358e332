package models

import "time"

type BlogPost struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Excerpt     string    `yaml:"excerpt" json:"excerpt"`
	Body        string    `yaml:"body" json:"body,omitempty"`
	Author      string    `yaml:"author" json:"author"`
	Category    string    `yaml:"category" json:"category"`
	ReadMinutes int       `yaml:"read_minutes" json:"readMinutes"`
	PublishedAt time.Time `yaml:"published_at" json:"publishedAt"`
}

// UserProfile is a community directory entry.
type UserProfile struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Pronouns  string   `yaml:"pronouns" json:"pronouns,omitempty"`
	Location  string   `yaml:"location" json:"location,omitempty"`
	Bio       string   `yaml:"bio" json:"bio"`
	Interests []string `yaml:"interests" json:"interests"`
}

// Navigator is a listed mental-health professional with bookable slots.
type Navigator struct {
	ID          string            `yaml:"id" json:"id"`
	Name        string            `yaml:"name" json:"name"`
	Title       string            `yaml:"title" json:"title"`
	Specialties []string          `yaml:"specialties" json:"specialties"`
	Bio         string            `yaml:"bio" json:"bio"`
	Slots       []AppointmentSlot `yaml:"slots" json:"slots"`
}

type AppointmentSlot struct {
	StartsAt time.Time `yaml:"starts_at" json:"startsAt"`
	Minutes  int       `yaml:"minutes" json:"minutes"`
	Format   string    `yaml:"format" json:"format"`
}

// Appointment is a slot flattened together with the navigator offering it.
type Appointment struct {
	NavigatorID   string          `json:"navigatorId"`
	NavigatorName string          `json:"navigatorName"`
	Slot          AppointmentSlot `json:"slot"`
}
