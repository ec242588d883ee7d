package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const expectedFile = "expected.out"

// fuzzDB is a zip archive holding the reference outcome of a program
// together with every transformed variant of it.
type fuzzDB struct {
	file   *os.File
	writer *zip.Writer
	source string
	count  uint
}

func createFuzzDB(path string, sourceFilename string, expected string) (*fuzzDB, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	db := &fuzzDB{
		file:   file,
		writer: zip.NewWriter(file),
		source: filepath.Base(sourceFilename),
	}

	if err := db.write(expectedFile, expected); err != nil {
		file.Close()
		return nil, err
	}

	return db, nil
}

// Add stores a transformed program under its hash.
// Calls must not happen concurrently.
func (self *fuzzDB) Add(hash string, program string) error {
	if err := self.write(fmt.Sprintf("output/%s_%s.hms", self.source, hash), program); err != nil {
		return err
	}
	self.count++
	return nil
}

func (self *fuzzDB) write(name string, contents string) error {
	writer, err := self.writer.Create(name)
	if err != nil {
		return err
	}

	_, err = io.Copy(writer, bytes.NewReader([]byte(contents)))
	return err
}

func (self *fuzzDB) Close() error {
	if err := self.writer.SetComment(fmt.Sprintf("Fuzzing output of '%s'", self.source)); err != nil {
		self.file.Close()
		return err
	}

	if err := self.writer.Close(); err != nil {
		self.file.Close()
		return err
	}

	return self.file.Close()
}

func readZipFile(file *zip.File) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()

	buf := bytes.NewBuffer(make([]byte, 0))
	if _, err := io.Copy(buf, reader); err != nil {
		return "", err
	}

	return buf.String(), nil
}
