package ncr

import "fmt"

// FormatNumber formatea el consecutivo de NCR de una organización: NCR-0001.
// A partir de 10000 el número crece sin truncarse.
func FormatNumber(seq int) string {
	return fmt.Sprintf("NCR-%04d", seq)
}
