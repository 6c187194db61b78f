// new.go implements the scaffolding pipeline behind the
// root command.
//
// Steps, in order:
//  0. Abort with exit code 1 if <name> already exists
//  1. Resolve the target name and day (--day, or parsed from the name)
//  2. Load configuration
//  3. Scaffold <name>/
//  4. Register <name> in ./Cargo.toml workspace.members
//  5. Read the session token and download the day's input to <name>/input.txt
//
// Nothing is rolled back: a failure in step 4 or 5 leaves the directory
// created in step 3 on disk.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/advent-new/internal/config"
	"github.com/shinji-kodama/advent-new/internal/fetch"
	"github.com/shinji-kodama/advent-new/internal/model"
	"github.com/shinji-kodama/advent-new/internal/numword"
	"github.com/shinji-kodama/advent-new/internal/scaffold"
	"github.com/shinji-kodama/advent-new/internal/workspace"
)

// newFlags holds command-specific flag values.
type newFlags struct {
	day int // --day: explicit puzzle day
}

// newResult is everything a successful run produced.
type newResult struct {
	Target     model.Target
	Scaffold   *scaffold.Result
	Members    []string
	InputPath  string
	InputBytes int
	Status     int

	// AlreadyMember is true when the manifest listed the package before
	// this run, e.g. after a previous run failed past registration.
	AlreadyMember bool
}

// ResolveTarget returns the (name, day) pair for a run. An explicit day is
// used as-is; otherwise the day is parsed from name as a number word.
func ResolveTarget(name string, day *int) (model.Target, error) {
	if day != nil {
		return model.Target{Name: name, Day: *day}, nil
	}

	d, err := numword.Parse(name)
	if err != nil {
		return model.Target{}, err
	}
	return model.Target{Name: name, Day: d}, nil
}

// runNew orchestrates the whole pipeline for one package.
// Each step maps its failure onto the exit code of its error class, so
// scripts can tell a parse problem from a missing token without reading
// stderr.
func runNew(cmd *cobra.Command, name string, day *int) error {
	// The name becomes a directory, a workspace member and a template value,
	// so it must name exactly one path element.
	if err := model.ValidatePackageName(name); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid package name", err)
	}

	root, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	// Step 0: refuse an existing target before anything else can fail.
	// An existing entry must always end the run with exit code 1, even when
	// the name is not a number word and no --day was given.
	if err := scaffold.CheckAvailable(root, name); err != nil {
		return scaffoldError(name, err)
	}

	// Step 1: resolve the day. An explicit --day wins; otherwise the
	// package name has to be a number word such as "twelve".
	target, err := ResolveTarget(name, day)
	if err != nil {
		return model.WrapCLIError(model.ExitParseError,
			"cannot derive the day from the package name (use --day)", err)
	}
	VerboseLog("Target: %s", target)

	// Step 2: configuration. Loaded before any mutation so a broken config
	// file never leaves a half-created package behind.
	cfg, err := config.Load(configPath)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to load configuration", err)
	}
	VerboseLog("Year %d, site %s, token %s", cfg.Year, cfg.BaseURL, cfg.TokenPath)

	// Step 3: scaffold. Create repeats the existence check, which only
	// matters if another process created the directory since step 0.
	res, err := scaffold.Create(root, target.Name)
	if err != nil {
		return scaffoldError(target.Name, err)
	}
	VerboseLog("Created %s", res.Dir)

	// Step 4: register in the workspace manifest. From here on nothing is
	// rolled back: if registration fails the new directory stays on disk.
	manifestPath := filepath.Join(root, workspace.ManifestFile)
	reg, err := workspace.Register(manifestPath, target.Name)
	if err != nil {
		return model.ClassifyCLIError("failed to register package in workspace", err)
	}
	if reg.Added {
		VerboseLog("Workspace members: %s", strings.Join(reg.Members, ", "))
	} else {
		VerboseLog("%s was already a workspace member", target.Name)
	}

	// Step 5: download the input. The token is read only now so that a
	// missing credential still leaves a usable, registered package.
	token, err := fetch.ReadToken(cfg.TokenPath)
	if err != nil {
		return model.ClassifyCLIError("failed to read session token", err)
	}

	fetcher := fetch.NewFetcher(cfg.Year, fetch.WithBaseURL(cfg.BaseURL), fetch.WithLogger(logger))
	resp, err := fetcher.Fetch(cmd.Context(), target.Day, token)
	if err != nil {
		return model.ClassifyCLIError("failed to download puzzle input", err)
	}

	// The body is saved whatever the status; the fetcher has already
	// logged a warning for a non-2xx response.
	inputPath, err := fetch.SaveInput(res.Dir, resp.Body)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to save puzzle input", err)
	}
	VerboseLog("Saved %d bytes to %s", len(resp.Body), inputPath)

	// Step 6: output results.
	printNewResult(cmd.OutOrStdout(), root, &newResult{
		Target:        target,
		Scaffold:      res,
		Members:       reg.Members,
		AlreadyMember: !reg.Added,
		InputPath:     inputPath,
		InputBytes:    len(resp.Body),
		Status:        resp.Status,
	})
	return nil
}

// scaffoldError maps a scaffold failure to a CLIError. An existing target
// is the one graceful abort and always exits with ExitAlreadyExists.
func scaffoldError(name string, err error) error {
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.WrapCLIError(model.ExitAlreadyExists,
			fmt.Sprintf("%s already exists", name), err)
	}
	return model.WrapCLIError(model.ExitGeneralError, "failed to scaffold package", err)
}

// printNewResult outputs the run summary in text or JSON format.
func printNewResult(w io.Writer, root string, r *newResult) {
	if IsJSONOutput() {
		printNewResultJSON(w, root, r)
	} else {
		printNewResultText(w, root, r)
	}
}

// printNewResultJSON outputs the run summary as structured JSON.
func printNewResultJSON(w io.Writer, root string, r *newResult) {
	type resultJSON struct {
		Name       string   `json:"name"`
		Day        int      `json:"day"`
		Dir        string   `json:"dir"`
		Files      []string `json:"files"`
		Members    []string `json:"members"`
		Registered bool     `json:"registered"`
		InputBytes int      `json:"inputBytes"`
		Status     int      `json:"status"`
	}

	result := resultJSON{
		Name: r.Target.Name,
		Day:  r.Target.Day,
		Dir:  relPath(root, r.Scaffold.Dir),
		Files: []string{
			relPath(root, r.Scaffold.ManifestPath),
			relPath(root, r.Scaffold.EntryPointPath),
			relPath(root, r.InputPath),
		},
		Members:    r.Members,
		Registered: !r.AlreadyMember,
		InputBytes: r.InputBytes,
		Status:     r.Status,
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(w, string(data))
}

// printNewResultText outputs the run summary as human-readable text.
func printNewResultText(w io.Writer, root string, r *newResult) {
	fmt.Fprintf(w, "Created package %q for day %d\n", r.Target.Name, r.Target.Day)
	fmt.Fprintf(w, "  Manifest:  %s\n", relPath(root, r.Scaffold.ManifestPath))
	fmt.Fprintf(w, "  Source:    %s\n", relPath(root, r.Scaffold.EntryPointPath))
	fmt.Fprintf(w, "  Input:     %s (%d bytes)\n", relPath(root, r.InputPath), r.InputBytes)
	fmt.Fprintf(w, "  Members:   %s\n", strings.Join(r.Members, ", "))
	if r.AlreadyMember {
		fmt.Fprintf(w, "  Note:      %q was already a workspace member\n", r.Target.Name)
	}
}

// relPath shortens path relative to root for display, falling back to
// the absolute path.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
