// This file is part of lflc - https://github.com/Lauriethefish/FactorioComputer
//
// Copyright 2023 Lauriethefish
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

package blueprint

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
)

// envelope is the outermost JSON object of every blueprint string.
type envelope struct {
	Blueprint Blueprint `json:"blueprint"`
}

// encoding is the blueprint-string alphabet: standard base64, no padding.
var encoding = base64.StdEncoding.WithPadding(base64.NoPadding)

// versionPrefix is the blueprint-string format version byte.
const versionPrefix = "0"

// Encode serialises bp into an importable blueprint string: JSON, zlib at
// best compression, base64, and the format version prefix.
func Encode(bp Blueprint) (string, error) {
	payload, err := json.Marshal(envelope{Blueprint: bp})
	if err != nil {
		return "", errors.Wrap(err, "Encode")
	}
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", errors.Wrap(err, "Encode")
	}
	if _, err = zw.Write(payload); err != nil {
		return "", errors.Wrap(err, "Encode")
	}
	if err = zw.Close(); err != nil {
		return "", errors.Wrap(err, "Encode")
	}
	return versionPrefix + encoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode. lflc itself never imports blueprints; this exists
// so tests and tooling can check what was emitted.
func Decode(s string) (Blueprint, error) {
	var bp envelope
	if len(s) == 0 || s[:1] != versionPrefix {
		return bp.Blueprint, errors.Errorf("Decode: missing %q version prefix", versionPrefix)
	}
	raw, err := encoding.DecodeString(s[1:])
	if err != nil {
		return bp.Blueprint, errors.Wrap(err, "Decode")
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return bp.Blueprint, errors.Wrap(err, "Decode")
	}
	defer zr.Close()
	if err = json.NewDecoder(zr).Decode(&bp); err != nil {
		return bp.Blueprint, errors.Wrap(err, "Decode")
	}
	return bp.Blueprint, nil
}
