// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsBusy(t *testing.T) {
	check := func(err error, want bool) {
		t.Helper()
		if got := IsBusy(err); got != want {
			t.Errorf("IsBusy(%v) = %v, want %v", err, got, want)
		}
	}
	check(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true)
	check(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1213}), true)
	check(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, false)
	check(errors.New("1205"), false)
	check(nil, false)
}
