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


// Package search answers keyword queries over the filesystem.
//
// The Searcher runs two branches concurrently:
//   - the native branch asks the OS metadata index (mdfind)
//   - the memory branch scans the current index snapshot
//
// Native results come first, memory results second, and the first
// occurrence of a path wins. The merged list is scored by the Ranker,
// which combines name matching, aliases, acronyms, click history and
// location into one additive integer score.
package search
