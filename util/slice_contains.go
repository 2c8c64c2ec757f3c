package util

import "strings"

// helper function to check if a string is contained in a slice
func SliceContains(arr []string, val string) bool {
	for _, v := range arr {
		if v == val {
			return true
		}
	}
	return false
}

// SliceContainsFold is the case-insensitive variant, used for matching
// user-supplied filter values against KVP values from log lines
func SliceContainsFold(arr []string, val string) bool {
	for _, v := range arr {
		if strings.EqualFold(v, val) {
			return true
		}
	}
	return false
}
