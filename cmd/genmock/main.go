// Command genmock writes a deterministic heat-detection CSV in the sorter's
// layout (padded coordinates, rows ordered by data_pas) for demos and tests.
//
// Usage:
//
//	go run ./cmd/genmock -out output/dados_ordenados.csv -rows 500 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

var header = []string{"id_bdq", "foco_id", "lat", "lon", "data_pas", "pais", "estado", "municipio", "bioma"}

type municipality struct {
	name     string
	lat, lon float64
	biome    string
	weight   int // relative detection frequency
}

var municipalities = []municipality{
	{"LAGES", -27.8157, -50.3264, "Mata Atlântica", 9},
	{"CAMPOS NOVOS", -27.4017, -51.2250, "Mata Atlântica", 6},
	{"URUBICI", -28.0150, -49.5917, "Mata Atlântica", 5},
	{"CURITIBANOS", -27.2833, -50.5833, "Mata Atlântica", 4},
	{"SAO JOAQUIM", -28.2939, -49.9317, "Mata Atlântica", 3},
	{"SANTANA DO LIVRAMENTO", -30.8908, -55.5328, "Pampa", 4},
	{"ALEGRETE", -29.7902, -55.7949, "Pampa", 3},
	{"CORUMBA", -19.0077, -57.6510, "Pantanal", 5},
	{"SAO FELIX DO XINGU", -6.6447, -51.9950, "Amazônia", 8},
	{"FORMOSA DO RIO PRETO", -11.0483, -45.1931, "Cerrado", 6},
}

type options struct {
	rows  int
	seed  uint64
	start time.Time
	days  int
}

func main() {
	out := flag.String("out", "output/dados_ordenados.csv", "output CSV path")
	rows := flag.Int("rows", 500, "number of detections")
	seed := flag.Uint64("seed", 1, "random seed")
	start := flag.String("start", "2024-07-01", "first day (YYYY-MM-DD)")
	days := flag.Int("days", 90, "number of days covered")
	flag.Parse()

	first, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	if *rows <= 0 || *days <= 0 {
		flag.Usage()
		log.Fatal("-rows and -days must be positive")
	}

	if err := writeFile(*out, options{rows: *rows, seed: *seed, start: first, days: *days}); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d detections to %s", *rows, *out)
}

func writeFile(path string, opts options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := generate(f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type detection struct {
	m   municipality
	lat float64
	lon float64
	at  time.Time
}

// generate writes opts.rows detections sorted by timestamp. The same options
// always produce the same bytes.
func generate(w io.Writer, opts options) error {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	total := 0
	for _, m := range municipalities {
		total += m.weight
	}

	dets := make([]detection, opts.rows)
	for i := range dets {
		m := pick(rng, total)
		// hours cluster around the early-afternoon satellite pass
		hour := 12 + int(rng.NormFloat64()*4)
		hour = min(max(hour, 0), 23)
		at := opts.start.
			AddDate(0, 0, rng.IntN(opts.days)).
			Add(time.Duration(hour)*time.Hour + time.Duration(rng.IntN(60))*time.Minute)
		dets[i] = detection{
			m:   m,
			lat: m.lat + rng.NormFloat64()*0.15,
			lon: m.lon + rng.NormFloat64()*0.15,
			at:  at,
		}
	}
	slices.SortStableFunc(dets, func(a, b detection) int { return a.at.Compare(b.at) })

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, d := range dets {
		record := []string{
			strconv.Itoa(100000 + i),
			fmt.Sprintf("foco-%d", i+1),
			fmt.Sprintf("%12.6f", d.lat),
			fmt.Sprintf("%12.6f", d.lon),
			d.at.Format(time.DateTime),
			"Brasil",
			stateOf(d.m),
			d.m.name,
			d.m.biome,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func pick(rng *rand.Rand, total int) municipality {
	n := rng.IntN(total)
	for _, m := range municipalities {
		if n < m.weight {
			return m
		}
		n -= m.weight
	}
	return municipalities[len(municipalities)-1]
}

func stateOf(m municipality) string {
	switch m.biome {
	case "Pampa":
		return "RIO GRANDE DO SUL"
	case "Pantanal":
		return "MATO GROSSO DO SUL"
	case "Amazônia":
		return "PARÁ"
	case "Cerrado":
		return "BAHIA"
	default:
		return "SANTA CATARINA"
	}
}
