// Command simulate generates synthetic exam-session fixtures: behavior
// samples and monitoring event streams for each requested archetype,
// written as JSON for seeding demos and load tests.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Varshinibhargav-17/ExampulseAI/pkg/simulate"
)

func main() {
	var (
		archetypeFlag = flag.String("archetype", "all", "Archetype to generate: normal, copy_paste, tab_switch, bot_assisted, collaborative, or all")
		count         = flag.Int("count", 10, "Sessions to generate per archetype")
		seed          = flag.Uint64("seed", 42, "Random seed")
		out           = flag.String("out", "", "Output file (defaults to stdout)")
	)
	flag.Parse()

	archetypes, err := selectArchetypes(*archetypeFlag)
	if err != nil {
		log.Fatal(err)
	}

	output := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		output = f
	}

	generator := simulate.NewGenerator(*seed)
	encoder := json.NewEncoder(output)

	total := 0
	for _, archetype := range archetypes {
		for i := 0; i < *count; i++ {
			if err := encoder.Encode(generator.Session(archetype)); err != nil {
				log.Fatalf("Failed to write session: %v", err)
			}
			total++
		}
	}

	fmt.Fprintf(os.Stderr, "Generated %d sessions across %d archetypes\n", total, len(archetypes))
}

func selectArchetypes(name string) ([]simulate.Archetype, error) {
	if name == "all" {
		return simulate.Archetypes(), nil
	}

	archetype := simulate.Archetype(name)
	if !archetype.Valid() {
		known := make([]string, 0, len(simulate.Archetypes()))
		for _, a := range simulate.Archetypes() {
			known = append(known, string(a))
		}
		return nil, fmt.Errorf("unknown archetype %q (known: %s)", name, strings.Join(known, ", "))
	}
	return []simulate.Archetype{archetype}, nil
}
