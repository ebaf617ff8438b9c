package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/robust-mdp/internal/loader"
	"github.com/danielpatrickdp/robust-mdp/internal/process"
	"github.com/danielpatrickdp/robust-mdp/internal/repository"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	csvPath := flag.String("csv", "", "path to the source model CSV file")
	outPath := flag.String("out", "", "write the JSON document to this path (default stdout)")
	dbPath := flag.String("db", "", "store the model in this SQLite database instead")
	name := flag.String("name", "", "model name inside the database")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: export --csv path/to/model.csv [--out model.json]")
		fmt.Fprintln(os.Stderr, "       export --csv path/to/model.csv --db path/to/models.db --name label")
		os.Exit(2)
	}
	if *dbPath != "" && *name == "" {
		fmt.Fprintln(os.Stderr, "usage: --db requires --name")
		os.Exit(2)
	}

	mdp, err := loader.LoadCSVFile(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *dbPath != "" {
		err = runStore(mdp, *dbPath, *name)
	} else {
		err = runJSON(mdp, *outPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region json-mode

func runJSON(mdp *process.MDP, outPath string) error {
	data, err := json.MarshalIndent(mdp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if outPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d states)\n", outPath, mdp.StateCount())
	return nil
}

// #endregion json-mode

// #region store-mode

func runStore(mdp *process.MDP, dbPath, name string) error {
	store, err := repository.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveModel(name, mdp)
	if err != nil {
		return err
	}
	fmt.Printf("stored model %s as %s (%d states)\n", name, id, mdp.StateCount())
	return nil
}

// #endregion store-mode
