// Package render groups the visual outputs of a reach.
//
// Two renderers are provided:
//
//   - [chart]: the stepped D50 chart along the reach, as SVG, PNG (drawn
//     with gg) or JSON datasets for a browser charting library.
//   - [schematic]: the sections drawn left to right with their reach
//     lengths, built as Graphviz DOT and rendered to SVG or PNG.
//
// Both take the same [reach.Series], so a chart and a schematic rendered in
// one run always agree on the estimates they show.
//
// [chart]: github.com/matzehuels/revetment/pkg/render/chart
// [schematic]: github.com/matzehuels/revetment/pkg/render/schematic
// [reach.Series]: github.com/matzehuels/revetment/pkg/reach.Series
package render
