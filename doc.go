// Package groundcover estimates ground-cover composition (grass, sand,
// dead vegetation) from pixel tables derived from drone and ground
// photographs.
//
// The analysis workflow is: load a precomputed table of labeled pixels
// (dataset), split it into train and test sets grouped by source photo
// (dataset), scale the predictors (preprocessing), fit a cover
// classifier (linear or ensemble), and evaluate the predicted
// compositions against the observed ones (eval). The eval package is
// the heart of the module: it turns parallel observed/predicted
// composition vectors into per-class errors, a pooled RMSE, and a
// long-form dataset that the plotting package renders as scatter and
// ternary diagrams.
//
// Quick start:
//
//	table, _ := dataset.Load(f)
//	train, test, _ := dataset.GroupShuffleSplit(table, 0.3, 42)
//
//	scaler := preprocessing.NewStandardScaler()
//	Xtrain, _ := scaler.FitTransform(train.Features())
//	ytrain, _ := train.Labels()
//
//	clf := linear.NewSoftmaxRegression(linear.WithC(0.5))
//	_ = clf.Fit(Xtrain, ytrain)
//
//	Xtest, _ := scaler.Transform(test.Features())
//	probas, _ := clf.PredictProba(Xtest)
//	predicted, _ := eval.FromProbaMatrix(probas, []string{"dead", "grass", "sand"})
//	observed, _ := test.Compositions()
//
//	result, _ := eval.Evaluate(observed, predicted)
//	fmt.Println("pooled RMSE:", result.RMSE)
package groundcover
