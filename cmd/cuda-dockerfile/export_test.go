package main

import (
	"io"
	"os"
)

var Run = run

func MockOsArgs(new []string) (restore func()) {
	saved := os.Args
	os.Args = append([]string{"argv0"}, new...)
	return func() {
		os.Args = saved
	}
}

func MockOsStdout(new io.Writer) (restore func()) {
	saved := osStdout
	osStdout = new
	return func() {
		osStdout = saved
	}
}

func MockOsStderr(new io.Writer) (restore func()) {
	saved := osStderr
	osStderr = new
	return func() {
		osStderr = saved
	}
}

func MockRepositoryURL(new string) (restore func()) {
	saved := repositoryURL
	repositoryURL = new
	return func() {
		repositoryURL = saved
	}
}
