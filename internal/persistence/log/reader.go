package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"crystalsim/internal/sim/growth"
)

// ReadJSONLZstd decodes every line of a compressed JSONL file, in order.
// A file whose writer was not closed yields the lines flushed so far.
func ReadJSONLZstd(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		if err := fn(sc.Bytes()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadGrowthEvents replays every events-*.jsonl.zst file under dir in name order.
func ReadGrowthEvents(dir string, fn func(growth.Notification) error) error {
	files, err := filepath.Glob(filepath.Join(dir, "events-*.jsonl.zst"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, path := range files {
		err := ReadJSONLZstd(path, func(line []byte) error {
			var ev growth.Notification
			if err := json.Unmarshal(line, &ev); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			return fn(ev)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
