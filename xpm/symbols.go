package xpm

import "fmt"

const (
	letters     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits      = "0123456789"
	punctuation = "!$%&()*+,-./:;<=>?@[]^_{|}~"
	alnum       = letters + digits

	// Never contains '"' or '\\'
	singleSymbols = alnum + punctuation
)

// TooManyColorsError is returned when more colors are in use than can be
// represented with two characters per pixel.
type TooManyColorsError struct {
	Needed    int
	Available int
}

func (e *TooManyColorsError) Error() string {
	return fmt.Sprintf("xpm: too many colors for symbol set (%d needed, %d available)", e.Needed, e.Available)
}

func singleCharSymbols() []string {
	s := make([]string, len(singleSymbols))
	for i := range singleSymbols {
		s[i] = singleSymbols[i : i+1]
	}
	return s
}

func doubleCharSymbols() []string {
	s := make([]string, 0, len(alnum)*len(alnum))
	for i := range alnum {
		for j := range alnum {
			s = append(s, alnum[i:i+1]+alnum[j:j+1])
		}
	}
	return s
}

// symbolTable maps the transparent marker and each used palette index to a
// unique symbol
type symbolTable struct {
	cpp         int
	transparent string
	colors      map[int]string
}

// newSymbolTable assigns the first symbol to transparency and the rest to
// used, which must be sorted and free of duplicates
func newSymbolTable(used []int) (*symbolTable, error) {
	needed := len(used) + 1

	cpp, symbols := 1, singleCharSymbols()
	if needed > len(symbols) {
		cpp, symbols = 2, doubleCharSymbols()
	}
	if needed > len(symbols) {
		return nil, &TooManyColorsError{
			Needed:    needed,
			Available: len(symbols),
		}
	}

	t := &symbolTable{
		cpp:         cpp,
		transparent: symbols[0],
		colors:      make(map[int]string, len(used)),
	}
	for i, idx := range used {
		t.colors[idx] = symbols[i+1]
	}

	return t, nil
}

func (t *symbolTable) len() int {
	return len(t.colors) + 1
}
