/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Spanlist Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpDemoOrders(t *testing.T) {
	out, err := execute(t, "dump", "--name", "orders")
	if err != nil {
		t.Fatalf("dump failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "orders: rows 0-") {
		t.Errorf("missing window summary:\n%s", out)
	}
	// the Americas block spans 12 rows of 36px
	if !strings.Contains(out, "432") {
		t.Errorf("missing merged region height:\n%s", out)
	}
}

func TestSpansFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.csv"), []byte("k\nx\nx\ny\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	cfgPath := filepath.Join(dir, "spanlist.yaml")
	yaml := "log: {level: error}\nlists:\n  - name: a\n    source: {type: csv, options: {file_path: a.csv}}\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out, err := execute(t, "spans", "--config", cfgPath, "--name", "a")
	if err != nil {
		t.Fatalf("spans failed: %v\n%s", err, out)
	}
	for _, want := range []string{"0:k", "1:k", "2:k"} {
		if !strings.Contains(out, want) {
			t.Errorf("span dump missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "0:k") > strings.Index(out, "2:k") {
		t.Errorf("cells not in row order:\n%s", out)
	}
}

func TestUnknownList(t *testing.T) {
	if _, err := execute(t, "dump", "--name", "nope"); err == nil {
		t.Error("expected error for unknown list")
	}
	if _, err := execute(t, "spans"); err == nil {
		t.Error("expected error without --name")
	}
}
