package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/nandscan/nandscan/internal/cache"
	"github.com/nandscan/nandscan/internal/models"
	"github.com/nandscan/nandscan/internal/output"
	"github.com/nandscan/nandscan/internal/projects"
	"github.com/nandscan/nandscan/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [project]",
	Short: "Scan one project (or all) and print its NAND report",
	Long: `Scans the selected Digital-Logic-Sim project, resolving every custom chip
down to primitive NAND gates. Pass a project name or its list index, use
--all for every project, or run interactively from a terminal.

Reports go to stdout; skip and resolution diagnostics go to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Bool("all", false, "scan every discovered project")
	scanCmd.Flags().Bool("parallel", false, "scan projects concurrently (one graph per project)")
	scanCmd.Flags().Bool("no-cache", false, "bypass the scan cache")
	scanCmd.Flags().String("format", "text", "output format: text, json, or yaml")
}

func runScan(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	parallel, _ := cmd.Flags().GetBool("parallel")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	format, _ := cmd.Flags().GetString("format")

	formatter, err := output.New(format)
	if err != nil {
		return err
	}

	list, err := projects.Discover(cfg.ResolveGameDir(gameDir))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		logger.Warn("No projects found")
		return nil
	}

	var selected []models.Project
	switch {
	case all:
		selected = list
	case len(args) == 1:
		p, ok := selectProject(list, args[0])
		if !ok {
			return fmt.Errorf("no project named %q (try 'nandscan list')", args[0])
		}
		selected = []models.Project{p}
	default:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("no project selected; pass a project name or --all")
		}
		selected, err = promptSelection(list)
		if err != nil {
			return err
		}
	}

	return scanProjects(selected, formatter, !noCache, parallel)
}

// runInteractive is the root command: pick a project from a numbered list,
// with the optional positional argument overriding the game directory.
func runInteractive(cmd *cobra.Command, args []string) error {
	override := gameDir
	if len(args) == 1 {
		override = args[0]
	}

	list, err := projects.Discover(cfg.ResolveGameDir(override))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		logger.Warn("No projects found")
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal; use 'nandscan scan <project>' or 'nandscan scan --all'")
	}

	selected, err := promptSelection(list)
	if err != nil {
		return err
	}
	return scanProjects(selected, &output.TextFormatter{}, cfg.Cache.Enabled, false)
}

// promptSelection lists the projects with a trailing "All" choice and reads a
// numeric selection from stdin.
func promptSelection(list []models.Project) ([]models.Project, error) {
	fmt.Println("Choose a DLS Project to NAND scan:")
	longestName := 3
	for i, p := range list {
		if len(p.Name) > longestName {
			longestName = len(p.Name)
		}
		fmt.Printf("  %d.) %s\n", i+1, p.Name)
	}
	fmt.Println(strings.Repeat("-", longestName+7))
	fmt.Printf("  %d.) All\n", len(list)+1)

	fmt.Print("Enter your choice: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read choice: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	switch {
	case err == nil && n == len(list)+1:
		fmt.Println("Scanning all projects...")
		return list, nil
	case err == nil && n > 0 && n <= len(list):
		return []models.Project{list[n-1]}, nil
	default:
		return nil, fmt.Errorf("invalid choice")
	}
}

// selectProject matches a name first, then a 1-based list index.
func selectProject(list []models.Project, arg string) (models.Project, bool) {
	if p, ok := projects.Find(list, arg); ok {
		return p, true
	}
	if n, err := strconv.Atoi(arg); err == nil && n > 0 && n <= len(list) {
		return list[n-1], true
	}
	return models.Project{}, false
}

// scanProjects scans the selection and prints one report per analyzable
// project. Skipped projects and per-chip failures are diagnostics on stderr.
// With parallel set, projects are scanned concurrently; each scan owns its
// own chip graph, so no synchronization beyond the cache handle is needed.
func scanProjects(selected []models.Project, formatter output.Formatter, useCache, parallel bool) error {
	var c *cache.Cache
	if useCache && cfg.Cache.Enabled {
		var err error
		c, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			logger.WithError(err).Warn("Scan cache unavailable")
		} else {
			defer c.Close()
		}
	}

	sc := scanner.New()
	results := make([]*models.ProjectScanResult, len(selected))

	if parallel && len(selected) > 1 {
		g := new(errgroup.Group)
		for i, p := range selected {
			i, p := i, p
			g.Go(func() error {
				results[i] = scanOne(sc, p, c)
				return nil
			})
		}
		g.Wait()
	} else {
		for i, p := range selected {
			results[i] = scanOne(sc, p, c)
		}
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		if err := formatter.Format(res, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

// scanOne scans a single project, consulting the cache first. Returns nil
// when the project was skipped.
func scanOne(sc *scanner.Scanner, project models.Project, c *cache.Cache) *models.ProjectScanResult {
	logger.Infof("Scanning project: %s", project.Name)

	var fingerprint string
	if c != nil {
		fp, err := cache.Fingerprint(project.Path)
		if err == nil {
			fingerprint = fp
			if res, ok := c.Get(project, fp); ok {
				logger.Debugf("Cache hit for %s", project.Name)
				return res
			}
		} else {
			logger.WithError(err).Debugf("No fingerprint for %s", project.Name)
		}
	}

	res, err := sc.Scan(project)
	if err != nil {
		logger.Warnf("Skipping %s: %v", project.Name, err)
		return nil
	}

	if c != nil && fingerprint != "" {
		if err := c.Put(res, fingerprint); err != nil {
			logger.WithError(err).Debugf("Failed to cache %s", project.Name)
		}
	}
	return res
}
