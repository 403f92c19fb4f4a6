package utils

import "testing"

// TestRelativePathOrSelf verifies relative calculation and its fallbacks.
func TestRelativePathOrSelf(testingHandle *testing.T) {
	if relativePath := RelativePathOrSelf("/root/project/src/main.go", "/root/project"); relativePath != "src/main.go" {
		testingHandle.Fatalf("relative path = %q, want %q", relativePath, "src/main.go")
	}
	if relativePath := RelativePathOrSelf("/root/project", "/root/project"); relativePath != "." {
		testingHandle.Fatalf("identical paths should yield %q, got %q", ".", relativePath)
	}
}

// TestExtensionWithoutDot verifies extension extraction and normalization.
func TestExtensionWithoutDot(testingHandle *testing.T) {
	testCases := []struct {
		path              string
		expectedExtension string
	}{
		{path: "main.cpp", expectedExtension: "cpp"},
		{path: "archive.tar.GZ", expectedExtension: "gz"},
		{path: "Makefile", expectedExtension: ""},
		{path: "trailing.", expectedExtension: ""},
		{path: ".gitignore", expectedExtension: "gitignore"},
	}
	for _, testCase := range testCases {
		if actualExtension := ExtensionWithoutDot(testCase.path); actualExtension != testCase.expectedExtension {
			testingHandle.Fatalf("ExtensionWithoutDot(%q) = %q, want %q", testCase.path, actualExtension, testCase.expectedExtension)
		}
	}
}

// TestPathHasComponent verifies segment-wise component matching.
func TestPathHasComponent(testingHandle *testing.T) {
	if !PathHasComponent("a/.git/config", ".git") {
		testingHandle.Fatal("component in the middle should match")
	}
	if PathHasComponent("a/.github/workflow", ".git") {
		testingHandle.Fatal("partial segment should not match")
	}
}
