// Package discovery locates the input CSV: an explicit path first, then a
// fixed list of default locations relative to a base directory.
package discovery

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/couchcryptid/focos-report/internal/domain"
)

// DefaultCandidates are probed, in order, relative to the base directory.
var DefaultCandidates = []string{
	filepath.Join("output", "dados_ordenados.csv"),
	filepath.Join("output", "dados.csv"),
	"dados_ordenados.csv",
	filepath.Join("..", "output", "dados_ordenados.csv"),
}

// NotFoundError lists what was probed and which CSV files were seen nearby.
type NotFoundError struct {
	BaseDir    string
	Candidates []string // paths probed, in order
	Available  []string // .csv files found in BaseDir/output and BaseDir
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: probed %s", domain.ErrFileNotFound, strings.Join(e.Candidates, ", "))
}

func (e *NotFoundError) Unwrap() error { return domain.ErrFileNotFound }

// Find returns the absolute path of the first existing regular file among
// explicit (when non-empty) and DefaultCandidates under baseDir.
func Find(explicit, baseDir string) (string, error) {
	candidates := make([]string, 0, len(DefaultCandidates)+1)
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	for _, c := range DefaultCandidates {
		candidates = append(candidates, filepath.Join(baseDir, c))
	}

	for _, c := range candidates {
		if isRegularFile(c) {
			return filepath.Abs(c)
		}
	}

	return "", &NotFoundError{
		BaseDir:    baseDir,
		Candidates: candidates,
		Available:  listCSV(filepath.Join(baseDir, "output"), baseDir),
	}
}

// Prompt asks for a path on out and reads one line from in. Empty input or
// a path that is not a regular file yields domain.ErrFileNotFound.
func Prompt(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Digite o caminho completo para o arquivo CSV ordenado\n(ou pressione Enter para sair): ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read path: %w", err)
	}

	path := strings.TrimSpace(line)
	if path == "" {
		return "", fmt.Errorf("%w: no path given", domain.ErrFileNotFound)
	}
	if !isRegularFile(path) {
		return "", fmt.Errorf("%w: %s does not exist", domain.ErrFileNotFound, path)
	}
	return filepath.Abs(path)
}

// WriteDiagnostics prints the probed candidates and nearby CSV files.
func WriteDiagnostics(w io.Writer, nf *NotFoundError) {
	fmt.Fprintf(w, "Arquivo CSV não encontrado nos locais esperados (diretório atual: %s)\n", nf.BaseDir)
	for _, c := range nf.Candidates {
		fmt.Fprintf(w, "   x %s\n", c)
	}
	if len(nf.Available) == 0 {
		fmt.Fprintln(w, "Nenhum arquivo CSV encontrado em ./output ou no diretório atual")
		return
	}
	fmt.Fprintln(w, "Arquivos CSV disponíveis:")
	for _, a := range nf.Available {
		fmt.Fprintf(w, "   - %s\n", a)
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func listCSV(dirs ...string) []string {
	var found []string
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if isRegularFile(m) {
				found = append(found, m)
			}
		}
	}
	slices.Sort(found)
	return slices.Compact(found)
}
