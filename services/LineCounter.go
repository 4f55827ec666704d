package services

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type inputFile struct {
	io.Reader
	file *os.File
}

func (input *inputFile) Close() error {
	return input.file.Close()
}

// openInput opens a log file for reading, swallowing a UTF-8 byte-order mark
// if one is present.
func openInput(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ioError("failed to open input file", err)
	}
	return &inputFile{
		Reader: transform.NewReader(file, unicode.BOMOverride(transform.Nop)),
		file:   file,
	}, nil
}

// CountLines returns the number of lines a sequential read of path yields: one
// per line terminator, plus one for trailing text without a terminator.
func CountLines(path string) (int, error) {
	input, err := openInput(path)
	if err != nil {
		return 0, err
	}
	defer input.Close()
	return countLines(input)
}

func countLines(reader io.Reader) (int, error) {
	buffer := make([]byte, 32*1024)
	count := 0
	var last byte
	read := false
	for {
		n, err := reader.Read(buffer)
		if n > 0 {
			count += bytes.Count(buffer[:n], []byte{'\n'})
			last = buffer[n-1]
			read = true
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, ioError("failed to read input file", err)
		}
	}
	if read && last != '\n' {
		count++
	}
	return count, nil
}

// eachLine calls fn for every line of reader, terminator included.
func eachLine(reader io.Reader, fn func(line string)) error {
	buffered := bufio.NewReaderSize(reader, 64*1024)
	for {
		line, err := buffered.ReadString('\n')
		if len(line) > 0 {
			fn(line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return ioError("failed to read input file", err)
		}
	}
}
