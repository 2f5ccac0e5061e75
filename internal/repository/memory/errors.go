package memory

import "fmt"

func errDuplicate(table, column string) error {
	return fmt.Errorf("memory store: duplicate key value violates unique constraint %s_%s_key", table, column)
}

func errForeignKey(table, column string) error {
	return fmt.Errorf("memory store: foreign key violation on %s.%s", table, column)
}
