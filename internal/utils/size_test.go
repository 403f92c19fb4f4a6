package utils

import "testing"

// TestParseSizeLimit verifies accepted literals and rejection cases.
func TestParseSizeLimit(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		sizeLiteral   string
		expectedBytes int64
		expectError   bool
	}{
		{name: "plain bytes", sizeLiteral: "2048", expectedBytes: 2048},
		{name: "kibibytes", sizeLiteral: "64K", expectedBytes: 64 * 1024},
		{name: "mebibytes lowercase suffix", sizeLiteral: "1m", expectedBytes: 1024 * 1024},
		{name: "gibibytes", sizeLiteral: "2G", expectedBytes: 2 * 1024 * 1024 * 1024},
		{name: "surrounding whitespace", sizeLiteral: " 512 ", expectedBytes: 512},
		{name: "zero disables the limit", sizeLiteral: "0", expectedBytes: 0},
		{name: "empty literal", sizeLiteral: "", expectError: true},
		{name: "bare suffix", sizeLiteral: "K", expectError: true},
		{name: "negative value", sizeLiteral: "-5", expectError: true},
		{name: "not a number", sizeLiteral: "abc", expectError: true},
		{name: "fractional value", sizeLiteral: "1.5M", expectError: true},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			parsedBytes, parseError := ParseSizeLimit(testCase.sizeLiteral)
			if testCase.expectError {
				if parseError == nil {
					subTest.Fatalf("ParseSizeLimit(%q) should fail", testCase.sizeLiteral)
				}
				return
			}
			if parseError != nil {
				subTest.Fatalf("ParseSizeLimit(%q) failed: %v", testCase.sizeLiteral, parseError)
			}
			if parsedBytes != testCase.expectedBytes {
				subTest.Fatalf("ParseSizeLimit(%q) = %d, want %d", testCase.sizeLiteral, parsedBytes, testCase.expectedBytes)
			}
		})
	}
}

// TestFormatMebibytes verifies the fixed two-decimal rendering.
func TestFormatMebibytes(testingHandle *testing.T) {
	if formatted := FormatMebibytes(1024 * 1024); formatted != "1.00 MiB" {
		testingHandle.Fatalf("FormatMebibytes(1 MiB) = %q", formatted)
	}
	if formatted := FormatMebibytes(0); formatted != "0.00 MiB" {
		testingHandle.Fatalf("FormatMebibytes(0) = %q", formatted)
	}
}
