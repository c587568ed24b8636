// Package output renders and persists transcript artifacts.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Block is one contributing segment in the detailed listing.
type Block struct {
	Index int
	Start float64 // seconds
	End   float64 // seconds
	Text  string
}

// Meta is the artifact header.
type Meta struct {
	Source       string // source audio filename
	Model        string
	Generated    time.Time
	SegmentCount int
}

// Render produces the artifact text: header, full merged text, and a
// detailed per-segment listing when more than one block contributed.
func Render(meta Meta, fullText string, blocks []Block) string {
	var b strings.Builder

	fmt.Fprintf(&b, "音頻文件: %s\n", filepath.Base(meta.Source))
	fmt.Fprintf(&b, "轉錄時間: %s\n", meta.Generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "使用模型: %s\n", meta.Model)
	fmt.Fprintf(&b, "處理區塊數: %d\n\n", meta.SegmentCount)

	fmt.Fprintf(&b, "完整文本:\n%s\n\n", strings.TrimSpace(fullText))

	if len(blocks) > 1 {
		b.WriteString("詳細分段:\n")
		for _, blk := range blocks {
			fmt.Fprintf(&b, "[Block %d] %s - %s\n%s\n\n",
				blk.Index, mmss(blk.Start), mmss(blk.End), strings.TrimSpace(blk.Text))
		}
	}

	return b.String()
}

// WriteFile persists content at path. The write goes through a temporary
// file in the same directory followed by a rename, so a reader never
// observes a half-written artifact.
func WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

func mmss(sec float64) string {
	s := int(sec)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
