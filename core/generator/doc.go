// Package generator drives component and page generation end to end:
// prompt, model call, normalization, caller overrides and backfilled
// defaults.
//
// [ComponentGenerator] and [PageGenerator] produce one document per call or
// stream progressively refined partial documents. [AIGenerator] is the
// public façade; it adds optional validation and guarantees that every
// failure is one of the typed errors of package ai.
//
//	gen, err := generator.NewFromProvider(ai.ProviderOpenAI, factory.Config{
//	    ClientConfig: ai.ClientConfig{APIKey: os.Getenv("OPENAI_API_KEY")},
//	})
//	result, err := gen.GenerateComponent(ctx, prompt.ComponentOptions{
//	    Description: "Create a blue button",
//	}, generator.GeneratorOptions{Validate: true})
package generator
