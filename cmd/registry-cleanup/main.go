// Command registry-cleanup removes problematic cached display names from
// the host's persisted entity registry, so translation keys take effect
// again on the next start.
//
// Stop the host before running this; it rewrites the registry file in
// place after saving a backup copy.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ilievs/robovac/registry"
	"github.com/peterbourgon/ff/v3"
)

// Options contains program options that can be set via command-line flags
// or ROBOVAC_* environment variables.
type Options struct {
	RegistryPath string
	BackupPath   string
	Platform     string
	Names        string
	DryRun       bool
}

func main() {
	var opts Options
	fs := flag.NewFlagSet("registry-cleanup", flag.ExitOnError)
	fs.StringVar(&opts.RegistryPath, "registry", "/config/.storage/core.entity_registry",
		"Path to the persisted entity registry file")
	fs.StringVar(&opts.BackupPath, "backup", "",
		"Path of the backup copy (default: <registry>.backup)")
	fs.StringVar(&opts.Platform, "platform", registry.DefaultPlatform,
		"Platform identifier of the entities to clean")
	fs.StringVar(&opts.Names, "names", strings.Join(registry.DefaultProblematicNames, ","),
		"Comma-separated set of problematic original_name values")
	fs.BoolVar(&opts.DryRun, "dry-run", false,
		"Report what would be cleaned without writing anything")

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("ROBOVAC")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	os.Exit(run(opts))
}

func run(opts Options) int {
	fmt.Println("Entity registry cleanup")
	fmt.Println(strings.Repeat("=", 50))

	if opts.BackupPath == "" {
		opts.BackupPath = opts.RegistryPath + ".backup"
	}

	patchOpts := registry.PatchOptions{
		Platform:         opts.Platform,
		ProblematicNames: splitNames(opts.Names),
	}

	if _, err := os.Stat(opts.RegistryPath); err != nil {
		fmt.Println("Entity registry not found:", opts.RegistryPath)
		fmt.Println("Make sure you are running this on the system that hosts the registry.")
		return 1
	}

	if !opts.DryRun {
		if err := registry.Backup(opts.RegistryPath, opts.BackupPath); err != nil {
			fmt.Println("Failed to create backup:", err)
			fmt.Println("Cannot proceed without a backup.")
			return 1
		}
		fmt.Println("Backup created:", opts.BackupPath)
	}

	doc, err := registry.Load(opts.RegistryPath)
	if err != nil {
		fmt.Println("Failed to load entity registry:", err)
		return 1
	}

	changes := registry.Patch(doc, patchOpts)
	for _, change := range changes {
		fmt.Printf("Cleaning entity: %s - removing original_name: %q\n",
			change.EntityID, change.OriginalName)
	}

	if opts.DryRun {
		fmt.Printf("Dry run: %d entities would be cleaned\n", len(changes))
		return 0
	}

	if len(changes) == 0 {
		fmt.Println("No problematic entities found - registry is already clean")
		return 0
	}

	if err := registry.Save(doc, opts.RegistryPath); err != nil {
		fmt.Println("Failed to write cleaned registry:", err)
		fmt.Println("Restoring backup...")
		if restoreErr := registry.Restore(opts.BackupPath, opts.RegistryPath); restoreErr != nil {
			fmt.Println("Failed to restore backup:", restoreErr)
			fmt.Println("Restore it manually: cp", opts.BackupPath, opts.RegistryPath)
			return 1
		}
		fmt.Println("Backup restored")
		return 1
	}

	fmt.Printf("Successfully cleaned %d entities\n", len(changes))
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("1. Start the host again")
	fmt.Println("2. Check that the sensors now show proper translated names")
	fmt.Println("3. To roll back: cp", opts.BackupPath, opts.RegistryPath)
	return 0
}

func splitNames(names string) []string {
	var out []string
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
