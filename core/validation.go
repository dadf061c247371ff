// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"path/filepath"
)

// ValidatePath checks that path is a non-empty absolute path.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPath, ErrEmptyPath)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidPath, ErrRelativePath, path)
	}
	return nil
}

// ValidateClickRecord checks a click record before it is persisted.
func ValidateClickRecord(record *ClickRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidClickRecord)
	}
	if err := ValidatePath(record.Path); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidClickRecord, err)
	}
	if record.Count == 0 {
		return fmt.Errorf("%w: count must be positive", ErrInvalidClickRecord)
	}
	return nil
}
