package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/storage"
)

func newPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put <record-id> [file]",
		Short: "Store a value under a record id",
		Long: `Convert a single document from a file (or stdin) and store it under the
given record id, replacing any previous value.`,
		Example: `  echo '{:name "Tobie"}' | sqlvalue put person:tobie`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd.Context())

			id, err := parseThing(args[0])
			if err != nil {
				return err
			}
			var path string
			if len(args) == 2 {
				path = args[1]
			}
			data, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			v, err := decodeValue(e.cfg, data)
			if err != nil {
				return err
			}

			store, release, err := e.openStore()
			if err != nil {
				return err
			}
			defer release()

			if err := store.Put(cmd.Context(), id, v); err != nil {
				return err
			}
			e.logger.Info("record stored", "id", id.String())
			return nil
		},
	}
}

func newLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load [file]",
		Short: "Store many records at once",
		Long: `Read documents from a file (or stdin) and store every object found as a
record. A document may be one object or an array of objects. Each object
needs an "id" field holding a record id, either as a record id value or
as text such as person:tobie.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd.Context())

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			values, err := decodeValues(e.cfg, data)
			if err != nil {
				return err
			}

			var records []storage.Record
			for _, v := range values {
				rows := []sqlvalue.Value{v}
				if arr, ok := v.(sqlvalue.Array); ok {
					rows = arr
				}
				for _, item := range rows {
					r, err := recordOf(item)
					if err != nil {
						return err
					}
					records = append(records, r)
				}
			}

			store, release, err := e.openStore()
			if err != nil {
				return err
			}
			defer release()

			if err := store.PutBatch(cmd.Context(), records); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored %d records\n", len(records))
			return err
		},
	}
}

// recordOf takes the record id from the "id" field of an object
func recordOf(v sqlvalue.Value) (storage.Record, error) {
	obj, ok := v.(*sqlvalue.Object)
	if !ok {
		return storage.Record{}, fmt.Errorf("record must be an object, got %s", v.Kind())
	}
	idv, ok := obj.Get("id")
	if !ok {
		return storage.Record{}, fmt.Errorf("record %s has no id field", obj)
	}
	switch id := idv.(type) {
	case sqlvalue.Thing:
		return storage.Record{ID: id, Value: obj}, nil
	case sqlvalue.Strand:
		thing, err := parseThing(string(id))
		if err != nil {
			return storage.Record{}, err
		}
		obj.Set("id", thing)
		return storage.Record{ID: thing, Value: obj}, nil
	}
	return storage.Record{}, fmt.Errorf("record id must be a record id or text, got %s", idv.Kind())
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <record-id>...",
		Short: "Print stored values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd.Context())

			ids := make([]sqlvalue.Thing, len(args))
			for i, arg := range args {
				id, err := parseThing(arg)
				if err != nil {
					return err
				}
				ids[i] = id
			}

			store, release, err := e.openStore()
			if err != nil {
				return err
			}
			defer release()

			for _, id := range ids {
				v, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := writeValue(cmd, e.cfg, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newScanCommand() *cobra.Command {
	var (
		count bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "scan <table>",
		Short: "List the records of a table",
		Long: `Print every record of a table as an array of rows. Object records
keep their fields with the record id first; other values become
{ id, value } rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd.Context())

			store, release, err := e.openStore()
			if err != nil {
				return err
			}
			defer release()

			if count {
				n, err := store.Count(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			}

			rows := sqlvalue.Array{}
			err = store.Scan(cmd.Context(), args[0], func(r storage.Record) error {
				if limit > 0 && len(rows) >= limit {
					return errLimit
				}
				rows = append(rows, row(r))
				return nil
			})
			if err != nil && !errors.Is(err, errLimit) {
				return err
			}
			return writeValue(cmd, e.cfg, rows)
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "Print only the number of records")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many records (0 for all)")
	return cmd
}

var errLimit = errors.New("limit reached")

// row shapes a record for listing
func row(r storage.Record) sqlvalue.Value {
	obj, ok := r.Value.(*sqlvalue.Object)
	if !ok {
		out := sqlvalue.NewObject(2)
		out.Set("id", r.ID)
		out.Set("value", r.Value)
		return out
	}
	out := sqlvalue.NewObject(obj.Len() + 1)
	out.Set("id", r.ID)
	for _, f := range obj.Fields() {
		if f.Key != "id" {
			out.Set(f.Key, f.Value)
		}
	}
	return out
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <record-id>...",
		Short: "Remove stored records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd.Context())

			store, release, err := e.openStore()
			if err != nil {
				return err
			}
			defer release()

			for _, arg := range args {
				id, err := parseThing(arg)
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				e.logger.Info("record deleted", "id", id.String())
			}
			return nil
		},
	}
}
