// Package transform provides the fitted feature transform: per-column
// standardization for numeric features, one-hot encoding for categorical
// features, and a ColumnTransformer that combines both over a core.Table.
//
// A fitted ColumnTransformer can be serialized with Marshal and restored
// with Unmarshal; Apply on the restored value reproduces the matrix produced
// by the original FitApply.
//
// Typical use:
//
//	ct, err := transform.NewColumnTransformer(numeric, categorical)
//	if err != nil {
//	    return err
//	}
//	X, err := ct.FitApply(features)
//	names := ct.FeatureNames()
package transform
