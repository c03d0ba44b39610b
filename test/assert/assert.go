/*
 * Copyright 2023 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package assert provides the small set of testing.T-based assertion
// helpers used throughout this project's _test.go files, so that tests
// read the same way across packages without pulling in an external
// assertion library.
package assert

import (
	"fmt"
	"reflect"
	"strings"
)

type helper interface {
	Helper()
}

func markHelper(t interface{}) {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
}

// TestingT is the subset of *testing.T this package needs.
type TestingT interface {
	Errorf(format string, args ...interface{})
}

// Equal fails the test if expected and actual are not deeply equal.
func Equal(t TestingT, expected, actual interface{}, msgAndArgs ...interface{}) bool {
	markHelper(t)
	if objectsAreEqual(expected, actual) {
		return true
	}
	t.Errorf("not equal: \n\texpected: %#v\n\tactual  : %#v%s", expected, actual, formatExtra(msgAndArgs))
	return false
}

// NotEqual fails the test if expected and actual are deeply equal.
func NotEqual(t TestingT, expected, actual interface{}, msgAndArgs ...interface{}) bool {
	markHelper(t)
	if !objectsAreEqual(expected, actual) {
		return true
	}
	t.Errorf("expected values to differ, both were: %#v%s", actual, formatExtra(msgAndArgs))
	return false
}

// True fails the test if value is false.
func True(t TestingT, value bool, msgAndArgs ...interface{}) bool {
	markHelper(t)
	if value {
		return true
	}
	t.Errorf("expected true, got false%s", formatExtra(msgAndArgs))
	return false
}

// False fails the test if value is true.
func False(t TestingT, value bool, msgAndArgs ...interface{}) bool {
	markHelper(t)
	if !value {
		return true
	}
	t.Errorf("expected false, got true%s", formatExtra(msgAndArgs))
	return false
}

// Nil fails the test if value is not nil.
func Nil(t TestingT, value interface{}, msgAndArgs ...interface{}) bool {
	markHelper(t)
	if isNil(value) {
		return true
	}
	t.Errorf("expected nil, got: %#v%s", value, formatExtra(msgAndArgs))
	return false
}

// NotNil fails the test if value is nil.
func NotNil(t TestingT, value interface{}, msgAndArgs ...interface{}) bool {
	markHelper(t)
	if !isNil(value) {
		return true
	}
	t.Errorf("expected a non-nil value%s", formatExtra(msgAndArgs))
	return false
}

// NoError fails the test if err is non-nil.
func NoError(t TestingT, err error, msgAndArgs ...interface{}) bool {
	markHelper(t)
	if err == nil {
		return true
	}
	t.Errorf("expected no error, got: %v%s", err, formatExtra(msgAndArgs))
	return false
}

// Error fails the test if err is nil.
func Error(t TestingT, err error, msgAndArgs ...interface{}) bool {
	markHelper(t)
	if err != nil {
		return true
	}
	t.Errorf("expected an error, got nil%s", formatExtra(msgAndArgs))
	return false
}

// Len fails the test if the length of value is not length.
func Len(t TestingT, value interface{}, length int, msgAndArgs ...interface{}) bool {
	markHelper(t)
	l, ok := lengthOf(value)
	if ok && l == length {
		return true
	}
	t.Errorf("expected length %d, got %d%s", length, l, formatExtra(msgAndArgs))
	return false
}

// Contains fails the test if s does not contain substr (strings) or elem (slices/maps).
func Contains(t TestingT, s, contains interface{}, msgAndArgs ...interface{}) bool {
	markHelper(t)
	ok, found := containsElement(s, contains)
	if !ok {
		t.Errorf("unable to check contains for type %T%s", s, formatExtra(msgAndArgs))
		return false
	}
	if found {
		return true
	}
	t.Errorf("%#v does not contain %#v%s", s, contains, formatExtra(msgAndArgs))
	return false
}

func objectsAreEqual(expected, actual interface{}) bool {
	if expected == nil || actual == nil {
		return expected == actual
	}
	if exp, ok := expected.([]byte); ok {
		act, ok := actual.([]byte)
		if !ok {
			return false
		}
		return string(exp) == string(act)
	}
	return reflect.DeepEqual(expected, actual)
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

func lengthOf(value interface{}) (int, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
		return v.Len(), true
	default:
		return 0, false
	}
}

func containsElement(s, contains interface{}) (ok bool, found bool) {
	if str, isStr := s.(string); isStr {
		sub, isSub := contains.(string)
		if !isSub {
			return false, false
		}
		return true, strings.Contains(str, sub)
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if objectsAreEqual(v.Index(i).Interface(), contains) {
				return true, true
			}
		}
		return true, false
	case reflect.Map:
		for _, k := range v.MapKeys() {
			if objectsAreEqual(k.Interface(), contains) {
				return true, true
			}
		}
		return true, false
	default:
		return false, false
	}
}

func formatExtra(msgAndArgs []interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return "\n\t" + fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("\n\t%v", msgAndArgs)
}
