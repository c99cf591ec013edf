package main

import (
	"bufio"
	"os"
)

type fileWriter struct {
	filePath string
}

// WriteToDisk appends rows to the file, one per line.
func (fw *fileWriter) WriteToDisk(data []string) error {
	file, err := os.OpenFile(fw.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, row := range data {
		if _, err := w.WriteString(row + "\n"); err != nil {
			file.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
