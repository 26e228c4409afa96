package commands

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aquamarinepk/aqm"
)

const (
	defaultMongoURL = "mongodb://localhost:27017"
	defaultDBName   = "storefront"
)

var dbNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,63}$`)

// Target is the storefront database a command works on.
type Target struct {
	URL      string
	Database string
}

// ResolveTarget reads db.mongo.url and db.mongo.name, the same keys the
// storefront service uses for its receipts store.
func ResolveTarget(config *aqm.Config) (Target, error) {
	url, _ := config.GetString("db.mongo.url")
	name, _ := config.GetString("db.mongo.name")
	return NewTarget(url, name)
}

// NewTarget applies defaults and rejects anything that is not a plain
// application database.
func NewTarget(url, name string) (Target, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		url = defaultMongoURL
	}
	if !strings.HasPrefix(url, "mongodb://") && !strings.HasPrefix(url, "mongodb+srv://") {
		return Target{}, fmt.Errorf("db.mongo.url %q is not a mongodb URL", url)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultDBName
	}
	if !dbNamePattern.MatchString(name) {
		return Target{}, fmt.Errorf("db.mongo.name %q is not a valid database name", name)
	}
	switch name {
	case "admin", "local", "config":
		return Target{}, fmt.Errorf("db.mongo.name %q is a MongoDB system database", name)
	}

	return Target{URL: url, Database: name}, nil
}
