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

import "errors"

// Domain validation errors
var (
	// ErrInvalidPath indicates a path failed validation.
	ErrInvalidPath = errors.New("invalid path")

	// ErrEmptyPath indicates the path is empty.
	ErrEmptyPath = errors.New("path cannot be empty")

	// ErrRelativePath indicates the path is not absolute.
	ErrRelativePath = errors.New("path must be absolute")

	// ErrInvalidClickRecord indicates a ClickRecord failed validation.
	ErrInvalidClickRecord = errors.New("invalid click record")

	// ErrUnknownTypeFilter indicates an unsupported type filter name.
	ErrUnknownTypeFilter = errors.New("unknown type filter")
)
