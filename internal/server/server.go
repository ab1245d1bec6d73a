package server

import (
	"time"
)

// KeywordSet is the mutable watch set owned by the worker.
type KeywordSet interface {
	Keywords() []string
	AddKeyword(keyword string)
	RemoveKeyword(keyword string) bool
}

// Server is the keep-alive web surface: a banner for the hosting platform's
// health pings and a small API over the keyword watch set.
type Server struct {
	name      string
	version   string
	startedAt time.Time
	keywords  KeywordSet
}

func NewServer(name, version string, keywords KeywordSet) Server {
	return Server{
		name:      name,
		version:   version,
		startedAt: time.Now(),
		keywords:  keywords,
	}
}
