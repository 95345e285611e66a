// Package schema has the models, enums and report shapes shared by all parts of qualityscore.
package schema
