package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/viluon/ring-election/src/common/logger"
	"github.com/viluon/ring-election/src/simring"
)

const runTimeout = 30 * time.Second

// The runner executes a whole ring in one process and reports how many
// messages the election took, one "<ring size>,<message count>" line per
// topology. Topologies come from the command line ("runner 10 30 20") or,
// when no arguments are given, one per stdin line.
func main() {
	logger.InitLogger(logger.LoggerEnvironment(os.Getenv("LOG_LEVEL")))
	defer logger.Sync()

	if len(os.Args) > 1 {
		run(strings.Join(os.Args[1:], " "))
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		run(line)
	}
	if err := scanner.Err(); err != nil {
		logger.Logger.Fatalf("Failed to read topologies: %v", err)
	}
}

func run(topology string) {
	ids, err := parseTopology(topology)
	if err != nil {
		logger.Logger.Fatalf("Invalid topology %q: %v", topology, err)
	}

	ring, err := simring.New(ids)
	if err != nil {
		logger.Logger.Fatalf("Failed to build ring: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := ring.Run(ctx); err != nil {
		logger.Logger.Fatalf("Election failed: %v", err)
	}

	leader, _ := ring.Leader()
	logger.Logger.Infof("Ring of %d nodes elected %d with %d probes and %d notifies",
		len(ids), leader, ring.Counter().Probes(), ring.Counter().Notifies())

	fmt.Printf("%d,%d\n", len(ids), ring.Counter().Total())
}

func parseTopology(line string) ([]uint64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no identities given")
	}

	ids := make([]uint64, 0, len(fields))
	for _, field := range fields {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad identity %q: %w", field, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
