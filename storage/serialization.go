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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/filescout/core"
)

// Timestamps are stored as Unix microseconds; the zero time is stored as 0.
func timeSize(t time.Time) int {
	return varint.Int64.Size(unixMicro(t))
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(unixMicro(t), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	if v == 0 {
		return time.Time{}, n, nil
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func unixMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

// MarshalClickRecord encodes a click record as path, count, updatedAt.
func MarshalClickRecord(record *core.ClickRecord) []byte {
	size := ord.String.Size(record.Path) +
		varint.Uint64.Size(record.Count) +
		timeSize(record.UpdatedAt)
	buf := make([]byte, size)
	n := ord.String.Marshal(record.Path, buf)
	n += varint.Uint64.Marshal(record.Count, buf[n:])
	marshalTime(record.UpdatedAt, buf[n:])
	return buf
}

// UnmarshalClickRecord decodes a value written by MarshalClickRecord.
func UnmarshalClickRecord(data []byte) (*core.ClickRecord, error) {
	var (
		record core.ClickRecord
		n, m   int
		err    error
	)
	if record.Path, n, err = ord.String.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: click path: %w", ErrSerializationFailed, err)
	}
	if record.Count, m, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: click count: %w", ErrSerializationFailed, err)
	}
	n += m
	if record.UpdatedAt, _, err = unmarshalTime(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: click timestamp: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalScanState encodes the index builder checkpoint.
func MarshalScanState(state *core.ScanState) []byte {
	size := timeSize(state.LastFullScan) +
		varint.Uint64.Size(state.VolumeFingerprint) +
		varint.Uint64.Size(state.EntryCount) +
		timeSize(state.UpdatedAt)
	buf := make([]byte, size)
	n := marshalTime(state.LastFullScan, buf)
	n += varint.Uint64.Marshal(state.VolumeFingerprint, buf[n:])
	n += varint.Uint64.Marshal(state.EntryCount, buf[n:])
	marshalTime(state.UpdatedAt, buf[n:])
	return buf
}

// UnmarshalScanState decodes a value written by MarshalScanState.
func UnmarshalScanState(data []byte) (*core.ScanState, error) {
	var (
		state core.ScanState
		n, m  int
		err   error
	)
	if state.LastFullScan, n, err = unmarshalTime(data); err != nil {
		return nil, fmt.Errorf("%w: last scan: %w", ErrSerializationFailed, err)
	}
	if state.VolumeFingerprint, m, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: volume fingerprint: %w", ErrSerializationFailed, err)
	}
	n += m
	if state.EntryCount, m, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: entry count: %w", ErrSerializationFailed, err)
	}
	n += m
	if state.UpdatedAt, _, err = unmarshalTime(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: updated at: %w", ErrSerializationFailed, err)
	}
	return &state, nil
}
