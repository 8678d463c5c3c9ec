package textsource

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// FilterWords keeps words made only of printable non-space runes.
func FilterWords(words []string) []string {
	out := words[:0:0]
	for _, w := range words {
		if w == "" || strings.ContainsAny(w, " \t") {
			continue
		}
		out = append(out, w)
	}
	return out
}

// DefaultWords is a small built-in list used when no word list file exists.
var DefaultWords = strings.Fields(`the be to of and a in that have it for not on with he as you do at
this but his by from they we say her she or an will my one all would there their what so up out
if about who get which go me when make can like time no just him know take people into year your
good some could them see other than then now look only come its over think also back after use two
how our work first well way even new want because any these give day most us world keep small
place hand part great public still learn never point play early under last write again house
number letter word answer line before right light quick brown fox jumps lazy dog`)
