package simulator

import "fmt"

// Check verifies that every sample keeps low <= open,close <= high and that
// IsRising agrees with the stored open and close.
func (s Series) Check() error {
	for i, v := range s {
		if v.Low > v.Open || v.Low > v.Close || v.High < v.Open || v.High < v.Close {
			return fmt.Errorf("sample %d (%s): ohlc out of order: o=%.1f h=%.1f l=%.1f c=%.1f", i, v.Time, v.Open, v.High, v.Low, v.Close)
		}
		if v.IsRising != (v.Close > v.Open) {
			return fmt.Errorf("sample %d (%s): isRising=%v disagrees with open %.1f close %.1f", i, v.Time, v.IsRising, v.Open, v.Close)
		}
		if i > 0 && !v.At.After(s[i-1].At) {
			return fmt.Errorf("sample %d (%s): not after previous sample", i, v.Time)
		}
	}
	return nil
}
