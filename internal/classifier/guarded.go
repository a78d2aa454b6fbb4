package classifier

import "context"

// Guarded wraps m so every Generate call passes through g. Statement
// parsing uses it to share a provider's quota and breaker with the
// Verifier.
func Guarded(m Model, g *Guard) Model {
	return &guardedModel{model: m, guard: g}
}

// GuardedDocument is Guarded for models that also read documents.
func GuardedDocument(m DocumentModel, g *Guard) DocumentModel {
	return &guardedDocumentModel{guardedModel: guardedModel{model: m, guard: g}, doc: m}
}

type guardedModel struct {
	model Model
	guard *Guard
}

func (m *guardedModel) Name() string { return m.model.Name() }

func (m *guardedModel) Generate(ctx context.Context, prompt string) (string, error) {
	return m.run(func() (string, error) {
		return m.model.Generate(ctx, prompt)
	})
}

// run admits one call. A reply counts as a success here; unlike the
// Verifier, callers decode it afterwards with their own schema.
func (m *guardedModel) run(call func() (string, error)) (string, error) {
	if err := m.guard.Acquire(); err != nil {
		return "", err
	}
	raw, err := call()
	if err != nil {
		if countsAsFailure(err) {
			m.guard.RecordFailure()
		}
		return "", err
	}
	m.guard.RecordSuccess()
	return raw, nil
}

type guardedDocumentModel struct {
	guardedModel
	doc DocumentModel
}

func (m *guardedDocumentModel) GenerateFromDocument(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	return m.run(func() (string, error) {
		return m.doc.GenerateFromDocument(ctx, prompt, data, mimeType)
	})
}
