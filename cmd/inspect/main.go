package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/robust-mdp/internal/loader"
	"github.com/danielpatrickdp/robust-mdp/internal/process"
	"github.com/danielpatrickdp/robust-mdp/internal/repository"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	csvPath := flag.String("csv", "", "load the model from a CSV file")
	dbPath := flag.String("db", "", "load the model from a SQLite database")
	modelID := flag.String("model", "", "model id inside the database")
	policyStr := flag.String("policy", "", "comma-separated action index per state, e.g. 0,1,1")
	discount := flag.Float64("discount", 0.9, "discount factor for occupancy frequencies")
	logRun := flag.Bool("log", false, "record the evaluation in the database")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if (*csvPath == "") == (*dbPath == "") {
		fmt.Fprintln(os.Stderr, "usage: inspect --csv path/to/model.csv [--policy 0,1,1] [--discount g] [--json]")
		fmt.Fprintln(os.Stderr, "       inspect --db path/to/models.db --model id [--policy 0,1,1] [--discount g] [--log] [--json]")
		os.Exit(2)
	}
	if *dbPath != "" && *modelID == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/models.db --model id")
		os.Exit(2)
	}
	if *logRun && *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: --log requires --db")
		os.Exit(2)
	}

	if err := run(*csvPath, *dbPath, *modelID, *policyStr, *discount, *logRun, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

type evaluation struct {
	Policy        []int     `json:"policy"`
	Discount      float64   `json:"discount"`
	FirstBadState *int      `json:"first_bad_state,omitempty"`
	Rewards       []float64 `json:"rewards,omitempty"`
	Occupancy     []float64 `json:"occupancy,omitempty"`
}

type report struct {
	States     int         `json:"states"`
	Normalized bool        `json:"normalized"`
	Listing    string      `json:"listing"`
	Evaluation *evaluation `json:"evaluation,omitempty"`
}

func run(csvPath, dbPath, modelID, policyStr string, discount float64, logRun, jsonOut bool) error {
	var mdp *process.MDP
	var store *repository.Store
	var err error

	if csvPath != "" {
		mdp, err = loader.LoadCSVFile(csvPath)
	} else {
		store, err = repository.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		mdp, err = store.LoadModel(modelID)
	}
	if err != nil {
		return err
	}

	rep := report{
		States:     mdp.StateCount(),
		Normalized: mdp.IsNormalized(),
		Listing:    mdp.String(),
	}

	if policyStr != "" {
		ev, err := evaluate(mdp, policyStr, discount)
		if err != nil {
			return err
		}
		rep.Evaluation = ev

		if logRun {
			runID, err := logEvaluation(store, modelID, ev)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "logged evaluation run %s\n", runID)
		}
	}

	if jsonOut {
		return printJSON(rep)
	}
	printText(rep)
	return nil
}

// #endregion run

// #region evaluate

func evaluate(mdp *process.MDP, policyStr string, discount float64) (*evaluation, error) {
	policy, err := parsePolicy(policyStr, mdp.StateCount())
	if err != nil {
		return nil, err
	}
	nature := make([]int, mdp.StateCount())

	ev := &evaluation{Policy: policy, Discount: discount}
	if bad := mdp.IsPolicyCorrect(policy, nature); bad >= 0 {
		ev.FirstBadState = &bad
		return ev, nil
	}

	if ev.Rewards, err = mdp.RewardsState(policy, nature); err != nil {
		return nil, err
	}
	if ev.Occupancy, err = mdp.OccupancyFreq(uniformInit(mdp.StateCount()), discount, policy, nature); err != nil {
		return nil, err
	}
	return ev, nil
}

func parsePolicy(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("policy has %d entries for %d states", len(parts), n)
	}
	policy := make([]int, n)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("policy entry %d %q: %w", i, part, err)
		}
		policy[i] = v
	}
	return policy, nil
}

// uniformInit spreads the initial distribution evenly over all states.
func uniformInit(n int) *process.Transition {
	var init process.Transition
	for i := 0; i < n; i++ {
		init.Add(i, 1.0/float64(n), 0)
	}
	return &init
}

// #endregion evaluate

// #region output

func logEvaluation(store *repository.Store, modelID string, ev *evaluation) (string, error) {
	policyJSON, err := json.Marshal(ev.Policy)
	if err != nil {
		return "", fmt.Errorf("marshal policy: %w", err)
	}
	resultJSON, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return store.LogEvaluation(repository.EvaluationRecord{
		ModelID:    modelID,
		Discount:   ev.Discount,
		PolicyJSON: string(policyJSON),
		ResultJSON: string(resultJSON),
	})
}

func printText(rep report) {
	fmt.Printf("states: %d  normalized: %v\n", rep.States, rep.Normalized)
	fmt.Print(rep.Listing)
	if rep.Evaluation == nil {
		return
	}
	ev := rep.Evaluation
	if ev.FirstBadState != nil {
		fmt.Printf("\npolicy %v invalid at state %d\n", ev.Policy, *ev.FirstBadState)
		return
	}
	fmt.Printf("\npolicy:    %v\n", ev.Policy)
	fmt.Printf("rewards:   %v\n", ev.Rewards)
	fmt.Printf("occupancy: %v  (discount %g)\n", ev.Occupancy, ev.Discount)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
