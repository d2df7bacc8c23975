package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'A1-42' for key 'uq_bookings_live_seat'"}

	assert.True(t, isDuplicateEntry(dup))
	assert.True(t, isDuplicateEntry(fmt.Errorf("insert booking: %w", dup)))

	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.False(t, isDuplicateEntry(errors.New("duplicate entry")))
	assert.False(t, isDuplicateEntry(nil))
}
