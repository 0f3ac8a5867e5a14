// Package concrete provides declarative, typed and validated settings.
//
// Quick Start:
//
//	db := concrete.NewClass("Database").
//	    Declare("HOST", concrete.TypeOf[string](), concrete.Undefined).
//	    Field("PORT", 5432).
//	    MustBuild()
//
//	app := concrete.NewClass("App").
//	    Field("DEBUG", false).
//	    Field("DB", db.New()).
//	    MustBuild()
//
//	s := app.New()
//	err := s.Update(ctx, sourceenv.New(sourceenv.Options{}), "config.yaml")
//	if err := s.Check(); err != nil { ... }
//
// Settings are declared once on a Class (by builder or from a struct with
// ClassOf) and read per instance. Types are declared or guessed from defaults;
// validation runs default, mandatory and per-setting validators followed by a
// type check, and collects an ErrorTree that nests like the containers do.
//
// Sources (sourceenv, sourcefile, sourceflag, sourceviper) register themselves
// on import, so Update also accepts plain specifications such as a file path
// or a *pflag.FlagSet. DumpEffective and TakeSnapshot render the effective
// values with secrets redacted.
//
// See example_test.go for detailed usage.
package concrete
