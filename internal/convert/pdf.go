package convert

import (
	"fmt"
	"os"
	"strings"

	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

// PageCount reads the number of pages with the native parser. It returns 0
// when the parser cannot read the file; poppler remains authoritative.
func PageCount(path string) (n int) {
	// rsc.io/pdf panics on some malformed inputs.
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return 0
	}
	doc, err := rpdf.NewReader(f, st.Size())
	if err != nil {
		return 0
	}
	return doc.NumPage()
}

// checkPDF reports why path cannot be imported.
func checkPDF(path string) error {
	if path == "" {
		return errors.NewConfigError("path cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errors.NewConfigError("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return errors.NewConfigError("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return errors.NewConfigError("file is not a PDF: %s", path)
	}
	if info.Size() == 0 {
		return errors.NewConfigError("file is empty: %s", path)
	}
	return nil
}
