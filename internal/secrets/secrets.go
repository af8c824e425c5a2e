// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads operator-supplied values from a directory of
// plain-text files. Each file is one value: the filename is the key and
// the trimmed contents are the value.
//
// Recognized keys: contact-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ContactEmail is appended to the User-Agent so the encyclopedia
// operators can reach whoever runs the client.
const ContactEmail = "contact-email"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log logrus.FieldLogger) (map[string]string, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).WithField("secret", name).Warn("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// UserAgent returns product with the contact email appended in
// parentheses when one is present, e.g. "studyweb/1.0 (ada@example.org)".
func UserAgent(product string, secrets map[string]string) string {
	email := secrets[ContactEmail]
	if email == "" || strings.Contains(product, email) {
		return product
	}
	return fmt.Sprintf("%s (%s)", product, email)
}
