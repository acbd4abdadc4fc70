package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"mox/config"
	"mox/runner"
	"os"
	"runtime/pprof"
)

const (
	exitUsage  = 64
	exitNoFile = 66
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log.SetFlags(0)
	log.SetPrefix("mox: ")
	log.SetOutput(stderr)

	flags := flag.NewFlagSet("mox", flag.ContinueOnError)
	flags.SetOutput(stderr)
	dumpAST := flags.Bool("ast", false, "print the syntax tree instead of running")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mox [-ast] [script]\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Print(err)
		return exitUsage
	}

	// Start CPU profile if enabled via the config or the env-var CPUPROFILE.
	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			log.Printf("cannot create profile output file '%v': %v", cfg.CPUProfile, err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Printf("cannot start CPU profile: %v", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	// Maintain the interpreter state throughout the session.
	session := runner.NewSession(stdout, stderr, cfg)

	switch flags.NArg() {
	case 0:
		return execPrompt(session, stdin, stdout, stderr, cfg.Prompt, *dumpAST)
	case 1:
		return execFromFile(session, flags.Arg(0), *dumpAST, stdout)

	default:
		flags.Usage()
		return exitUsage
	}
}

func execFromFile(session *runner.Session, filepath string, dumpAST bool, stdout io.Writer) int {
	source, err := os.ReadFile(filepath)
	if err != nil {
		log.Printf("cannot open file '%v': %v", filepath, err)
		return exitNoFile
	}

	if dumpAST {
		return session.Dump(string(source), stdout).ExitCode()
	}
	return session.Run(string(source)).ExitCode()
}

func execPrompt(
	session *runner.Session, stdin io.Reader, stdout, stderr io.Writer,
	prompt string, dumpAST bool,
) int {
	line_scanner := bufio.NewScanner(stdin)

	for {
		fmt.Fprint(stderr, prompt)
		if !line_scanner.Scan() {
			break
		}

		// Errors are already reported, the session goes on with the next line.
		if dumpAST {
			session.Dump(line_scanner.Text(), stdout)
		} else {
			session.Run(line_scanner.Text())
		}
	}

	if err := line_scanner.Err(); err != nil {
		log.Printf("error reading input: %v", err)
		return 1
	}

	fmt.Fprintln(stderr)
	return 0
}
