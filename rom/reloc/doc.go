// Package reloc drives a structural module's rebuild: release the space it
// owned, place its data through the allocator, and patch every pointer that
// refers to the moved data.
//
// A Plan is the static half: which flat ranges a module owns at rebuild
// start, and which PointerReferences (ptr.Ref) are bound to each of its
// targets. A Module supplies the dynamic half in Build, using a Builder that
// places payloads and relocates targets by name.
//
// Rebuild runs modules in order. Each module runs inside an image
// transaction with an allocator snapshot; if Build fails, the image bytes and
// the free set are both restored, so a failed module leaves nothing behind.
// Modules that already committed are kept.
//
// Second-order tables (tables of addresses whose own address must be
// relocated) use Table: entries are appended as the data they point at is
// placed, and the table is placed and relocated last.
package reloc
