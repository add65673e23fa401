// Command translation-check prints the troubleshooting walkthrough for
// entities that show raw device-class names instead of translated ones,
// and verifies the strings file. It never modifies anything.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ilievs/robovac/entity"
	"github.com/ilievs/robovac/translations"
	"github.com/peterbourgon/ff/v3"
)

func main() {
	var stringsPath string
	fs := flag.NewFlagSet("translation-check", flag.ExitOnError)
	fs.StringVar(&stringsPath, "strings", "custom_components/roborock/strings.json",
		"Path to the integration's strings.json")

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("ROBOVAC")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "strings" {
			explicit = true
		}
	})

	os.Exit(run(stringsPath, explicit))
}

// run prints the walkthrough. A missing strings file only fails the run
// when the path was given explicitly; the default path is a best-effort
// guess that may simply not exist on this machine.
func run(stringsPath string, explicit bool) int {
	fmt.Println("=== Vacuum entity translation check ===")
	fmt.Println()
	printDiagnosis()
	printSteps()
	err := checkStrings(stringsPath)
	printExpectedResults()

	if err != nil && explicit {
		return 1
	}
	return 0
}

func printDiagnosis() {
	fmt.Println("PROBLEM DIAGNOSIS:")
	fmt.Println("- Entities showing device class names (e.g. 'Duration') instead of proper names")
	fmt.Println("- Translation keys properly configured but not being used")
	fmt.Println("- This is typically caused by entity registry caching")
	fmt.Println()
}

func printSteps() {
	fmt.Println("SOLUTION STEPS:")
	fmt.Println()
	fmt.Println("1. CLEAR ENTITY REGISTRY CACHE:")
	fmt.Println("   In the host UI: Settings -> Devices & Services -> Entities,")
	fmt.Println("   search for the integration's entities. For each entity with a")
	fmt.Println("   wrong name, rename its entity id to something temporary, save,")
	fmt.Println("   rename it back, and save again. This forces registry regeneration.")
	fmt.Println()
	fmt.Println("2. ALTERNATIVE - REGISTRY FILE PATCH:")
	fmt.Println("   Stop the host first, then run registry-cleanup. It backs up the")
	fmt.Println("   registry, nulls the cached names, and restores the backup if the")
	fmt.Println("   write fails.")
	fmt.Println()
	fmt.Println("3. VERIFY CONFIGURATION:")
}

func checkStrings(path string) error {
	table, err := translations.Load(path)
	if err != nil {
		fmt.Println("   strings.json not readable:", err)
		fmt.Println()
		return err
	}

	fmt.Printf("   strings.json found with %d sensor translations\n", table.SensorKeyCount())

	keys := append([]string{}, translations.CriticalKeys...)
	for _, desc := range entity.Sensors {
		keys = append(keys, desc.TranslationKey)
	}
	for _, status := range table.CheckSensorKeys(keys) {
		if status.Found {
			fmt.Printf("   translation key %q found\n", status.Key)
		} else {
			fmt.Printf("   translation key %q MISSING\n", status.Key)
		}
	}
	fmt.Println()
	return nil
}

func printExpectedResults() {
	fmt.Println("EXPECTED RESULTS:")
	fmt.Println("   After the fixes, entities should show:")
	fmt.Println("   - 'Main brush time left' instead of 'Duration'")
	fmt.Println("   - 'Cleaning time' instead of 'Duration'")
	fmt.Println("   - the device name plus the sensor name instead of generic names")
	fmt.Println()
	fmt.Println("   Restart the host after applying fixes and clear the browser cache.")
}
