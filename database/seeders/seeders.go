// Package seeders fills the database with a starting data set.
package seeders

import "fmt"

type seeder struct {
	name string
	fn   func()
}

var registry []seeder

// register adds a named seeder. Called from init() in each seeder file.
func register(name string, fn func()) {
	registry = append(registry, seeder{name: name, fn: fn})
}

// All returns every registered seeder wrapped with progress output, in
// registration order.
func All() []func() {
	out := make([]func(), len(registry))
	for i, s := range registry {
		s := s
		out[i] = func() {
			fmt.Printf("Seeding %s…\n", s.name)
			s.fn()
		}
	}
	return out
}

// RunAll executes every registered seeder.
func RunAll() {
	for _, fn := range All() {
		fn()
	}
}
