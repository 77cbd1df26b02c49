package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"

	sealbox "github.com/t7a/sealbox"
)

func init() {
	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(log.DebugLevel)
	}
	logrus.SetReportCaller(true)
	formatter := &logrus.TextFormatter{
		CallerPrettyfier: caller(),
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyFile: "caller",
		},
	}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

// caller returns the string presentation of the log caller, formatted
// as `/path/to/file.go:line_number`.
func caller() func(*runtime.Frame) (function string, file string) {
	return func(f *runtime.Frame) (function string, file string) {
		p, _ := os.Getwd()
		return "", fmt.Sprintf("%s:%d", strings.TrimPrefix(f.File, p), f.Line)
	}
}

const usage = `sealbox

Usage:
  sealbox init [<dir>]
  sealbox save <name> [<dir>]
  sealbox restore <name> [<dir>]
  sealbox load <name> [<dir>]
  sealbox list [<dir>]
  sealbox size <name> [<dir>]

init creates a repository in <dir> (default: current directory) and
prints the secret key to stdout. Keep it safe -- it is never written
to disk.

save reads a stream from stdin and stores it under <name>.

restore (alias: load) reads the secret key from stdin and writes the
stored stream for <name> to stdout.

list prints every stored name, one per line.

size prints the plaintext byte length of the stream stored under
<name>.

Options:
  -h --help     Show this screen.
  --version     Show version.
`

type opts struct {
	Init    bool
	Save    bool
	Restore bool
	Load    bool
	List    bool
	Size    bool
	Name    string
	Dir     string
}

func main() {
	// see https://github.com/google/go-cmdtest
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (rc int) {
	parser := &docopt.Parser{OptionsFirst: false}
	parsed, err := parser.ParseArgs(usage, args, "0.1")
	if err != nil {
		log.Error(err)
		return 2
	}
	var o opts
	if err := parsed.Bind(&o); err != nil {
		log.Error(err)
		return 2
	}
	if o.Dir == "" {
		o.Dir = "."
	}

	switch {
	case o.Init:
		return runInit(o.Dir, os.Stdout)
	case o.Save:
		return runSave(o.Dir, o.Name, os.Stdin)
	case o.Restore, o.Load:
		return runRestore(o.Dir, o.Name, os.Stdin, os.Stdout)
	case o.List:
		return runList(o.Dir, os.Stdout)
	case o.Size:
		return runSize(o.Dir, o.Name, os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
}

func runInit(dir string, stdout io.Writer) int {
	_, secret, err := sealbox.Init(dir)
	if err != nil {
		log.Error(err)
		return 1
	}
	fmt.Fprintln(stdout, secret.String())
	return 0
}

func runSave(dir, name string, stdin io.Reader) int {
	repo, err := sealbox.Open(dir)
	if err != nil {
		log.Error(err)
		return 1
	}
	result, err := repo.Save(name, stdin)
	if err != nil {
		log.Error(err)
		return 1
	}
	log.Debugf("saved %q: %d chunks, %d bytes", name, result.ChunkCount, result.ByteCount)
	return 0
}

func runRestore(dir, name string, stdin io.Reader, stdout io.Writer) int {
	repo, err := sealbox.Open(dir)
	if err != nil {
		log.Error(err)
		return 1
	}
	keyLine, err := readLine(stdin)
	if err != nil {
		log.Error(err)
		return 1
	}
	secret, err := sealbox.ParseSecretKey(keyLine)
	if err != nil {
		log.Error(err)
		return 1
	}
	if err := repo.Restore(name, secret, stdout); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func runList(dir string, stdout io.Writer) int {
	repo, err := sealbox.Open(dir)
	if err != nil {
		log.Error(err)
		return 1
	}
	names, err := repo.ListNames()
	if err != nil {
		log.Error(err)
		return 1
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return 0
}

func runSize(dir, name string, stdout io.Writer) int {
	repo, err := sealbox.Open(dir)
	if err != nil {
		log.Error(err)
		return 1
	}
	size, err := repo.Size(name)
	if err != nil {
		log.Error(err)
		return 1
	}
	fmt.Fprintln(stdout, size)
	return 0
}

// readLine reads a single newline-terminated (or EOF-terminated) line
// from r, trimming the trailing newline. Used to read the printable
// secret key off stdin for restore/load.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
