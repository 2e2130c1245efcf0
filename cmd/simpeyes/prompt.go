package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hamed0406/simpeyes/internal/domain"
	"github.com/hamed0406/simpeyes/internal/sites"
)

var errInvalidChoice = errors.New("invalid choice")

func ask(in *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	s, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// resolveSites uses -url or -file when given, otherwise asks.
func resolveSites(in *bufio.Reader, out io.Writer, url, file string) ([]domain.Site, error) {
	switch {
	case url != "":
		return sites.Single(url)
	case file != "":
		return sites.LoadFile(file)
	}

	choice, err := ask(in, out, "\nDo you want to monitor a single website or load from a file? (single/file): ")
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(choice) {
	case "single":
		u, err := ask(in, out, "\nEnter the website URL: ")
		if err != nil {
			return nil, err
		}
		return sites.Single(u)
	case "file":
		p, err := ask(in, out, "\nEnter the path to the websites file: ")
		if err != nil {
			return nil, err
		}
		return sites.LoadFile(p)
	default:
		return nil, errInvalidChoice
	}
}

func resolveTester(in *bufio.Reader, out io.Writer, tester string) (string, error) {
	if tester != "" {
		return tester, nil
	}
	return ask(in, out, "\nEnter your name: ")
}
