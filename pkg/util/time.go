package util

import "time"

// IsBST reports whether t falls within British Summer Time. TfL's Countdown
// feed publishes clock times in UTC all year round, so callers shift them by
// an hour when this is true.
func IsBST(t time.Time) bool {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		return false
	}

	name, _ := t.In(london).Zone()
	return name == "BST"
}
