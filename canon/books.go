// Package canon provides verse references and the Protestant 66-book canon.
// References use 3-letter book codes ("GEN 1:1") and sort in canonical order.
package canon

// Book is a 3-letter canonical book code (GEN, EXO, ..., REV).
type Book string

// bookOrder lists the 66 books in canonical order.
var bookOrder = []Book{
	"GEN", "EXO", "LEV", "NUM", "DEU", "JOS", "JDG", "RUT",
	"1SA", "2SA", "1KI", "2KI", "1CH", "2CH", "EZR", "NEH",
	"EST", "JOB", "PSA", "PRO", "ECC", "SNG", "ISA", "JER",
	"LAM", "EZK", "DAN", "HOS", "JOL", "AMO", "OBA", "JON",
	"MIC", "NAM", "HAB", "ZEP", "HAG", "ZEC", "MAL",
	"MAT", "MRK", "LUK", "JHN", "ACT", "ROM", "1CO", "2CO",
	"GAL", "EPH", "PHP", "COL", "1TH", "2TH", "1TI", "2TI",
	"TIT", "PHM", "HEB", "JAS", "1PE", "2PE", "1JN", "2JN",
	"3JN", "JUD", "REV",
}

// bookIndex maps each book code to its canonical position.
var bookIndex = func() map[Book]int {
	m := make(map[Book]int, len(bookOrder))
	for i, b := range bookOrder {
		m[b] = i
	}
	return m
}()

// bookAliases maps legacy or variant codes to canonical codes.
// The translation charter's older worksheets used PHI for Philippians.
var bookAliases = map[Book]Book{
	"PHI": "PHP",
}

// osisToBook maps OSIS book identifiers to canonical book codes.
var osisToBook = map[string]Book{
	"Gen": "GEN", "Exod": "EXO", "Lev": "LEV", "Num": "NUM",
	"Deut": "DEU", "Josh": "JOS", "Judg": "JDG", "Ruth": "RUT",
	"1Sam": "1SA", "2Sam": "2SA", "1Kgs": "1KI", "2Kgs": "2KI",
	"1Chr": "1CH", "2Chr": "2CH", "Ezra": "EZR", "Neh": "NEH",
	"Esth": "EST", "Job": "JOB", "Ps": "PSA", "Prov": "PRO",
	"Eccl": "ECC", "Song": "SNG", "Isa": "ISA", "Jer": "JER",
	"Lam": "LAM", "Ezek": "EZK", "Dan": "DAN", "Hos": "HOS",
	"Joel": "JOL", "Amos": "AMO", "Obad": "OBA", "Jonah": "JON",
	"Mic": "MIC", "Nah": "NAM", "Hab": "HAB", "Zeph": "ZEP",
	"Hag": "HAG", "Zech": "ZEC", "Mal": "MAL",
	"Matt": "MAT", "Mark": "MRK", "Luke": "LUK", "John": "JHN",
	"Acts": "ACT", "Rom": "ROM", "1Cor": "1CO", "2Cor": "2CO",
	"Gal": "GAL", "Eph": "EPH", "Phil": "PHP", "Col": "COL",
	"1Thess": "1TH", "2Thess": "2TH", "1Tim": "1TI", "2Tim": "2TI",
	"Titus": "TIT", "Phlm": "PHM", "Heb": "HEB", "Jas": "JAS",
	"1Pet": "1PE", "2Pet": "2PE", "1John": "1JN", "2John": "2JN",
	"3John": "3JN", "Jude": "JUD", "Rev": "REV",
}

// IsValid reports whether b is a known canonical book code.
func (b Book) IsValid() bool {
	_, ok := bookIndex[b]
	return ok
}

// Order returns the canonical position of the book (0 = Genesis).
// Unknown books sort after all canonical books.
func (b Book) Order() int {
	if i, ok := bookIndex[b]; ok {
		return i
	}
	return len(bookOrder)
}

// NormalizeBook resolves aliases and validates a book code.
// Returns the canonical code and true, or "" and false for unknown codes.
func NormalizeBook(code string) (Book, bool) {
	b := Book(code)
	if alias, ok := bookAliases[b]; ok {
		b = alias
	}
	if b.IsValid() {
		return b, true
	}
	return "", false
}

// BookFromOSIS maps an OSIS book identifier (e.g. "1Sam") to a canonical
// book code. Returns "" and false for unknown identifiers.
func BookFromOSIS(osisBook string) (Book, bool) {
	b, ok := osisToBook[osisBook]
	return b, ok
}

// Books returns the 66 canonical book codes in order.
func Books() []Book {
	out := make([]Book, len(bookOrder))
	copy(out, bookOrder)
	return out
}
