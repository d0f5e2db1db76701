// Package export writes history records as JSON or CSV.
//
//	exp, err := export.New("csv")
//	if err != nil {
//	    return err
//	}
//	return exp.Export(ctx, records, os.Stdout)
package export
